package model

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/common"
)

// TransactionType transaction type, from the wallet holder's point of view
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"  // funds left the wallet
	TransactionTypeCredit TransactionType = "CREDIT" // funds arrived
)

// Transaction represents a native SOL transfer touching the wallet
type Transaction struct {
	Type        TransactionType `json:"type"`
	TxID        string          `json:"txId"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      string          `json:"amount"`
	FeeSOL      string          `json:"feeSOL"` // fee we paid, "0" for incoming
	Timestamp   time.Time       `json:"timestamp"`
	BlockNumber int64           `json:"blockNumber"`
	Status      string          `json:"status"`
}

// LogResponse represents response for GET /wallet/transactions
type LogResponse struct {
	Address       string        `json:"address"`
	TotalReceived string        `json:"total_received"`
	TotalSent     string        `json:"total_sent"`
	Transactions  []Transaction `json:"transactions"`
}

// LogRequest represents filter parameters for GET /wallet/transactions
type LogRequest struct {
	Type      *TransactionType
	TxID      *string
	From      *time.Time
	To        *time.Time
	MinAmount *string
	MaxAmount *string
}

// Validate validates LogRequest filter parameters.
func (r *LogRequest) Validate() error {
	if r.Type != nil && *r.Type != TransactionTypeDebit && *r.Type != TransactionTypeCredit {
		return fmt.Errorf("type must be DEBIT or CREDIT")
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	for _, a := range []*string{r.MinAmount, r.MaxAmount} {
		if a == nil {
			continue
		}
		if _, err := common.CompareSOLAmounts(*a, "0"); err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
	}
	if r.MinAmount != nil && r.MaxAmount != nil {
		cmp, err := common.CompareSOLAmounts(*r.MinAmount, *r.MaxAmount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmp == 1 {
			return fmt.Errorf("minAmount must be less than or equal to maxAmount")
		}
	}
	return nil
}

// Match reports whether tx passes every filter that is set.
func (r *LogRequest) Match(tx Transaction) (bool, error) {
	if r.Type != nil && *r.Type != tx.Type {
		return false, nil
	}
	if r.TxID != nil && *r.TxID != tx.TxID {
		return false, nil
	}
	if r.From != nil && tx.Timestamp.Before(*r.From) {
		return false, nil
	}
	if r.To != nil && tx.Timestamp.After(*r.To) {
		return false, nil
	}
	if r.MinAmount != nil {
		cmp, err := common.CompareSOLAmounts(tx.Amount, *r.MinAmount)
		if err != nil {
			return false, fmt.Errorf("failed to compare min amount: %w", err)
		}
		if cmp < 0 {
			return false, nil
		}
	}
	if r.MaxAmount != nil {
		cmp, err := common.CompareSOLAmounts(tx.Amount, *r.MaxAmount)
		if err != nil {
			return false, fmt.Errorf("failed to compare max amount: %w", err)
		}
		if cmp > 0 {
			return false, nil
		}
	}
	return true, nil
}
