package wallet

import (
	"context"
	"sort"

	"github.com/AlexZinkM/lumen-wallet/internal/common"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
)

// History gets the owner's recent SOL transfers, filtered by req, newest first.
func (s *Service) History(ctx context.Context, ownerID int64, req *model.LogRequest) (*model.LogResponse, error) {
	if req == nil {
		req = &model.LogRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, newError(KindInvalidInput, err.Error(), nil)
	}

	w, err := s.getWallet(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	pub, err := solana.PublicKeyFromBase58(w.PublicKey)
	if err != nil {
		return nil, newError(KindUnexpected, "Stored wallet address is invalid", err)
	}

	lctx, cancel := s.ledgerContext(ctx)
	defer cancel()

	txs, err := s.ledger.Transactions(lctx, pub, s.opts.HistoryLimit)
	if err != nil {
		return nil, ledgerError("Failed to load transactions", err)
	}

	result := make([]model.Transaction, 0, len(txs))
	var received, sent []string
	for _, tx := range txs {
		ok, err := req.Match(tx)
		if err != nil {
			return nil, newError(KindUnexpected, "Failed to filter transactions", err)
		}
		if !ok {
			continue
		}
		result = append(result, tx)

		switch tx.Type {
		case model.TransactionTypeCredit:
			received = append(received, tx.Amount)
		case model.TransactionTypeDebit:
			sent = append(sent, tx.Amount)
		}
	}

	// Sort by time DESC (newest first)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	return &model.LogResponse{
		Address:       w.PublicKey,
		TotalReceived: common.SumSOL(received...),
		TotalSent:     common.SumSOL(sent...),
		Transactions:  result,
	}, nil
}
