package model

import "time"

// FundingStatus tells whether the faucet funded a wallet at creation.
type FundingStatus string

const (
	FundingPending FundingStatus = "pending" // needs manual funding
	FundingFunded  FundingStatus = "funded"
)

// Wallet is the public view of a stored account credential.
// The sealed secret is only reachable through crypto.Vault.
type Wallet struct {
	ID            int64
	OwnerID       int64
	PublicKey     string
	FundingStatus FundingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateWalletRequest represents request for POST /wallet/create
type CreateWalletRequest struct {
	TransactionPassword string `json:"transaction_password"`
}

// WalletResponse represents response for GET /wallet and POST /wallet/create
type WalletResponse struct {
	Created       bool          `json:"created"`
	Message       string        `json:"message"`
	PublicKey     string        `json:"public_key"`
	FundingStatus FundingStatus `json:"funding_status"`
	QR            string        `json:"qr,omitempty"` // base64 PNG of the address
	CreatedAt     time.Time     `json:"created_at"`
}
