package model

import "errors"

var (
	// ErrNoWallet is returned when the principal has no wallet.
	ErrNoWallet = errors.New("no wallet found")
	// ErrUserNotFound is returned when a user lookup finds nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("user already exists")
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Retryable *bool  `json:"retryable,omitempty"` // set for ledger submission failures
}
