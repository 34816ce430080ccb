package model

// PayRequest represents request for POST /wallet/send
type PayRequest struct {
	Recipient           string `json:"recipient"`
	Amount              string `json:"amount"`
	TransactionPassword string `json:"transaction_password"`
}

// PayResponse represents response for POST /wallet/send
type PayResponse struct {
	Message         string `json:"message"`
	Status          string `json:"status"`
	TransactionHash string `json:"transaction_hash"`
}

// FundResponse represents response for POST /wallet/fund
type FundResponse struct {
	Message         string        `json:"message"`
	FundingStatus   FundingStatus `json:"funding_status"`
	TransactionHash string        `json:"transaction_hash,omitempty"`
}
