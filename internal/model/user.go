package model

import "time"

// User is a principal allowed to own a wallet.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
