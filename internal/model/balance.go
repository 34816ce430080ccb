package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	PublicKey     string        `json:"public_key"`
	Balance       string        `json:"balance"` // SOL, 9 decimals
	FundingStatus FundingStatus `json:"funding_status"`
	Rate          string        `json:"rate,omitempty"`
	FiatValue     string        `json:"fiat_value,omitempty"`
	FiatCurrency  string        `json:"fiat_currency,omitempty"`
}

// AccountState is what the ledger reports about an account.
type AccountState struct {
	Lamports uint64
}
