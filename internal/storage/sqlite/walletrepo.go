package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/crypto"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
)

// WalletRepo stores one sealed credential per user.
type WalletRepo struct {
	db  *DB
	now func() time.Time
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(db *DB) *WalletRepo {
	return &WalletRepo{db: db, now: time.Now}
}

// Create stores a new wallet for ownerID unless one already exists. When the
// owner already has a wallet it is returned unchanged with created=false and
// the new credential is discarded.
func (r *WalletRepo) Create(ctx context.Context, ownerID int64, publicKey string, sealed crypto.Sealed) (*model.Wallet, bool, error) {
	now := formatTime(r.now())

	const query = `INSERT INTO wallets (user_id, public_key, sealed_secret, funding_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING`
	res, err := r.db.Writer.ExecContext(ctx, query, ownerID, publicKey, string(sealed), model.FundingPending, now, now)
	if err != nil {
		return nil, false, fmt.Errorf("create wallet for user %d: %w", ownerID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("create wallet for user %d: %w", ownerID, err)
	}

	// Read back through the writer so the row is visible regardless of reader lag.
	w, err := r.getByOwner(ctx, r.db.Writer, ownerID)
	if err != nil {
		return nil, false, err
	}
	return w, n > 0, nil
}

// GetByOwner returns the public view of the owner's wallet or model.ErrNoWallet.
func (r *WalletRepo) GetByOwner(ctx context.Context, ownerID int64) (*model.Wallet, error) {
	return r.getByOwner(ctx, r.db.Reader, ownerID)
}

func (r *WalletRepo) getByOwner(ctx context.Context, conn *sql.DB, ownerID int64) (*model.Wallet, error) {
	const query = `SELECT id, user_id, public_key, funding_status, created_at, updated_at
		FROM wallets WHERE user_id = ?`

	var w model.Wallet
	var status, createdAt, updatedAt string
	err := conn.QueryRowContext(ctx, query, ownerID).Scan(&w.ID, &w.OwnerID, &w.PublicKey, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoWallet
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet for user %d: %w", ownerID, err)
	}

	w.FundingStatus = model.FundingStatus(status)
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// Vault returns the signing capability for the owner's wallet or model.ErrNoWallet.
func (r *WalletRepo) Vault(ctx context.Context, ownerID int64) (*crypto.Vault, error) {
	const query = `SELECT public_key, sealed_secret FROM wallets WHERE user_id = ?`

	var publicKey, sealed string
	err := r.db.Reader.QueryRowContext(ctx, query, ownerID).Scan(&publicKey, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoWallet
	}
	if err != nil {
		return nil, fmt.Errorf("load vault for user %d: %w", ownerID, err)
	}

	pub, err := solana.PublicKeyFromBase58(publicKey)
	if err != nil {
		return nil, fmt.Errorf("stored public key for user %d is invalid: %w", ownerID, err)
	}
	return crypto.NewVault(pub, crypto.Sealed(sealed)), nil
}

// SetFundingStatus records the faucet outcome and bumps updated_at.
func (r *WalletRepo) SetFundingStatus(ctx context.Context, ownerID int64, status model.FundingStatus) error {
	const query = `UPDATE wallets SET funding_status = ?, updated_at = ? WHERE user_id = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, status, formatTime(r.now()), ownerID)
	if err != nil {
		return fmt.Errorf("set funding status for user %d: %w", ownerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set funding status for user %d: %w", ownerID, err)
	}
	if n == 0 {
		return model.ErrNoWallet
	}
	return nil
}
