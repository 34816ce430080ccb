package wallet

import (
	"errors"
	"fmt"
)

// Kind classifies a failed wallet operation.
type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidInput
	KindNoWallet
	KindUnauthorized // bad transaction password
	KindDestinationNotFound
	KindSubmissionRejected
	KindSubmissionTimeout
	KindRateLimited // payment cooldown
)

var kindNames = map[Kind]string{
	KindUnexpected:          "Unexpected",
	KindInvalidInput:        "InvalidInput",
	KindNoWallet:            "NoWallet",
	KindUnauthorized:        "Unauthorized",
	KindDestinationNotFound: "DestinationNotFound",
	KindSubmissionRejected:  "SubmissionRejected",
	KindSubmissionTimeout:   "SubmissionTimeout",
	KindRateLimited:         "RateLimited",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Retryable reports whether the same request may succeed if sent again.
// A rejected submission is final; a timed out one may not have reached the ledger.
func (k Kind) Retryable() bool {
	return k == KindSubmissionTimeout || k == KindRateLimited
}

// Error is returned by every Service method. Message is safe to show to the
// caller; Detail carries the ledger's own explanation when there is one.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindUnexpected if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
