package wallet

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/lumen-wallet/internal/crypto"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Create generates a credential for the owner, seals it with password and
// asks the faucet to fund it. If the owner already has a wallet, it is
// returned unchanged with Created=false.
// password must be []byte for security (caller should zero it after use)
func (s *Service) Create(ctx context.Context, ownerID int64, password []byte) (*model.WalletResponse, error) {
	if len(password) < MinPasswordLength {
		return nil, newError(KindInvalidInput,
			fmt.Sprintf("Transaction password must be at least %d characters", MinPasswordLength), nil)
	}

	ol := s.locks.lock(ownerID)
	defer ol.unlock()

	existing, err := s.getWallet(ctx, ownerID)
	if err == nil {
		return s.walletResponse(existing, false, "Wallet already exists")
	}
	if KindOf(err) != KindNoWallet {
		return nil, err
	}

	priv, err := crypto.GenerateKeypair()
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to create wallet", err)
	}
	defer clear(priv)

	publicKey := priv.PublicKey()
	sealed, err := crypto.Seal(priv, password, s.opts.Scrypt)
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to create wallet", err)
	}

	w, created, err := s.store.Create(ctx, ownerID, publicKey.String(), sealed)
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to create wallet", err)
	}
	if !created {
		return s.walletResponse(w, false, "Wallet already exists")
	}

	s.logger.Info("wallet created", zap.Int64("owner_id", ownerID), zap.String("public_key", w.PublicKey))

	message := "Wallet created and funded"
	if _, err := s.fund(ctx, w); err != nil {
		s.logger.Warn("faucet funding failed, wallet needs manual funding",
			zap.Int64("owner_id", ownerID), zap.String("public_key", w.PublicKey), zap.Error(err))
		message = "Wallet created; funding failed, fund it manually"
	} else {
		w.FundingStatus = model.FundingFunded
	}

	return s.walletResponse(w, true, message)
}

// Fund retries the faucet for a wallet that is still pending.
func (s *Service) Fund(ctx context.Context, ownerID int64) (*model.FundResponse, error) {
	w, err := s.getWallet(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if w.FundingStatus == model.FundingFunded {
		return &model.FundResponse{Message: "Wallet already funded", FundingStatus: w.FundingStatus}, nil
	}
	if s.faucet == nil || s.opts.FaucetLamports == 0 {
		return nil, newError(KindInvalidInput, "Faucet disabled", nil)
	}

	sig, err := s.fund(ctx, w)
	if err != nil {
		s.logger.Warn("faucet funding failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, ledgerError("Faucet refused to fund the wallet", err)
	}

	return &model.FundResponse{
		Message:         "Wallet funded",
		FundingStatus:   model.FundingFunded,
		TransactionHash: sig.String(),
	}, nil
}

// fund airdrops the configured amount and marks the wallet funded.
func (s *Service) fund(ctx context.Context, w *model.Wallet) (solana.Signature, error) {
	if s.faucet == nil || s.opts.FaucetLamports == 0 {
		return solana.Signature{}, fmt.Errorf("faucet disabled")
	}

	pub, err := solana.PublicKeyFromBase58(w.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid stored address: %w", err)
	}

	fctx, cancel := s.ledgerContext(ctx)
	defer cancel()

	sig, err := s.faucet.Fund(fctx, pub, s.opts.FaucetLamports)
	if err != nil {
		return solana.Signature{}, err
	}

	if err := s.store.SetFundingStatus(ctx, w.OwnerID, model.FundingFunded); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to record funding: %w", err)
	}
	return sig, nil
}

// Wallet returns the owner's wallet with a QR code of its address.
func (s *Service) Wallet(ctx context.Context, ownerID int64) (*model.WalletResponse, error) {
	w, err := s.getWallet(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.walletResponse(w, false, "")
}

func (s *Service) walletResponse(w *model.Wallet, created bool, message string) (*model.WalletResponse, error) {
	qr, err := generateQRCode(w.PublicKey)
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to render wallet", err)
	}
	return &model.WalletResponse{
		Created:       created,
		Message:       message,
		PublicKey:     w.PublicKey,
		FundingStatus: w.FundingStatus,
		QR:            qr,
		CreatedAt:     w.CreatedAt,
	}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	png, err := qrcode.Encode(address, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
