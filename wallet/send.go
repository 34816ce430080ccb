package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/client"
	"github.com/AlexZinkM/lumen-wallet/internal/common"
	"github.com/AlexZinkM/lumen-wallet/internal/crypto"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"go.uber.org/zap"
)

// SendRequest is a payment of Amount SOL to Recipient.
type SendRequest struct {
	Recipient string
	Amount    string
	// Password must be zeroed by the caller after Send returns.
	Password []byte
}

// Send is the authorized signer. It checks the request, unseals the owner's
// key with the transaction password, signs a SOL transfer and submits it.
// The key is wiped right after signing and on every early return.
// Payments of one owner never run concurrently.
func (s *Service) Send(ctx context.Context, ownerID int64, req SendRequest) (*model.PayResponse, error) {
	recipient, lamports, err := validateSend(req)
	if err != nil {
		return nil, err
	}

	ol := s.locks.lock(ownerID)
	defer ol.unlock()

	if s.opts.PayCooldown > 0 && !ol.lastPay.IsZero() {
		if elapsed := s.now().Sub(ol.lastPay); elapsed < s.opts.PayCooldown {
			remaining := (s.opts.PayCooldown - elapsed).Round(time.Second)
			return nil, newError(KindRateLimited, fmt.Sprintf("Payment cooldown active, please wait %v", remaining), nil)
		}
	}

	vault, err := s.store.Vault(ctx, ownerID)
	if errors.Is(err, model.ErrNoWallet) {
		return nil, newError(KindNoWallet, "No wallet found", nil)
	}
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to load wallet", err)
	}

	from := vault.PublicKey()
	if from.Equals(recipient) {
		return nil, newError(KindInvalidInput, "Cannot send to your own wallet", nil)
	}

	key, err := vault.Open(req.Password)
	if errors.Is(err, crypto.ErrAuthentication) {
		s.logger.Info("payment refused: invalid transaction password", zap.Int64("owner_id", ownerID))
		return nil, newError(KindUnauthorized, "Invalid transaction password", nil)
	}
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to unlock wallet", err)
	}
	defer key.Close()

	lctx, cancel := s.ledgerContext(ctx)
	defer cancel()

	if _, err := s.ledger.LoadAccount(lctx, recipient); err != nil {
		if errors.Is(err, client.ErrAccountNotFound) {
			return nil, newError(KindDestinationNotFound, "Destination account does not exist", nil)
		}
		return nil, ledgerError("Failed to check destination", err)
	}

	blockhash, err := s.ledger.LatestBlockhash(lctx)
	if err != nil {
		return nil, ledgerError("Failed to get recent blockhash", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, recipient).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to build transaction", err)
	}

	if err := key.SignTransaction(tx); err != nil {
		return nil, newError(KindUnexpected, "Failed to sign transaction", err)
	}
	key.Close()

	sig, err := s.ledger.Submit(lctx, tx)
	if err != nil {
		s.logger.Warn("payment submission failed",
			zap.Int64("owner_id", ownerID), zap.String("to", recipient.String()), zap.Error(err))
		return nil, ledgerError("Transaction rejected by the ledger", err)
	}

	ol.lastPay = s.now()
	s.logger.Info("payment sent",
		zap.Int64("owner_id", ownerID),
		zap.String("to", recipient.String()),
		zap.String("amount", req.Amount),
		zap.String("tx_hash", sig.String()))

	return &model.PayResponse{
		Message:         "Payment sent successfully",
		Status:          "success",
		TransactionHash: sig.String(),
	}, nil
}

func validateSend(req SendRequest) (solana.PublicKey, uint64, error) {
	if req.Recipient == "" || req.Amount == "" || len(req.Password) == 0 {
		return solana.PublicKey{}, 0, newError(KindInvalidInput,
			"recipient, amount and transaction_password are required", nil)
	}

	recipient, err := solana.PublicKeyFromBase58(req.Recipient)
	if err != nil {
		return solana.PublicKey{}, 0, newError(KindInvalidInput, "Invalid recipient address", nil)
	}

	lamports, err := common.SOLToLamports(req.Amount)
	if err != nil {
		e := newError(KindInvalidInput, "Amount must be a positive number", nil)
		e.Detail = err.Error()
		return solana.PublicKey{}, 0, e
	}
	return recipient, lamports, nil
}
