package wallet

import (
	"context"
	"errors"

	"github.com/AlexZinkM/lumen-wallet/internal/client"
	"github.com/AlexZinkM/lumen-wallet/internal/common"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Balance gets the owner's SOL balance from the ledger. An account the
// ledger does not know yet has balance 0 and stays pending.
func (s *Service) Balance(ctx context.Context, ownerID int64) (*model.BalanceResponse, error) {
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

	var lamports uint64
	account, err := s.ledger.LoadAccount(lctx, pub)
	switch {
	case errors.Is(err, client.ErrAccountNotFound):
		w.FundingStatus = model.FundingPending
	case err != nil:
		return nil, ledgerError("Failed to load balance", err)
	default:
		lamports = account.Lamports
		if lamports > 0 && w.FundingStatus == model.FundingPending {
			// Funded by hand since creation.
			if err := s.store.SetFundingStatus(ctx, ownerID, model.FundingFunded); err != nil {
				s.logger.Warn("failed to record funding", zap.Int64("owner_id", ownerID), zap.Error(err))
			} else {
				w.FundingStatus = model.FundingFunded
			}
		}
	}

	resp := &model.BalanceResponse{
		PublicKey:     w.PublicKey,
		Balance:       common.LamportsToSOL(lamports),
		FundingStatus: w.FundingStatus,
	}

	if s.prices != nil {
		rate, err := s.prices.SOLRate(lctx, s.opts.PriceCurrency)
		if err != nil {
			s.logger.Warn("price feed unavailable", zap.Error(err))
			return resp, nil
		}
		fiat, err := common.MultiplyRate(resp.Balance, rate)
		if err != nil {
			s.logger.Warn("bad rate from price feed", zap.String("rate", rate), zap.Error(err))
			return resp, nil
		}
		resp.Rate = rate
		resp.FiatValue = fiat
		resp.FiatCurrency = s.opts.PriceCurrency
	}

	return resp, nil
}
