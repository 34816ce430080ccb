// Package wallet implements the custodial wallet use cases: credential
// creation, funding, balance, history and authorized signing of payments.
package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/client"
	"github.com/AlexZinkM/lumen-wallet/internal/crypto"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// MinPasswordLength is the shortest accepted transaction password.
const MinPasswordLength = 8

// Ledger is the part of the Solana client the service needs.
type Ledger interface {
	LoadAccount(ctx context.Context, account solana.PublicKey) (*model.AccountState, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	Transactions(ctx context.Context, account solana.PublicKey, limit int) ([]model.Transaction, error)
}

// Faucet funds new wallets. Best effort.
type Faucet interface {
	Fund(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error)
}

// Store persists one wallet per owner.
type Store interface {
	Create(ctx context.Context, ownerID int64, publicKey string, sealed crypto.Sealed) (*model.Wallet, bool, error)
	GetByOwner(ctx context.Context, ownerID int64) (*model.Wallet, error)
	Vault(ctx context.Context, ownerID int64) (*crypto.Vault, error)
	SetFundingStatus(ctx context.Context, ownerID int64, status model.FundingStatus) error
}

// PriceFeed returns the SOL rate in a fiat currency.
type PriceFeed interface {
	SOLRate(ctx context.Context, currency string) (string, error)
}

// Options tunes the service.
type Options struct {
	LedgerTimeout  time.Duration
	FaucetLamports uint64
	HistoryLimit   int
	PayCooldown    time.Duration
	Scrypt         crypto.Params
	PriceCurrency  string
}

// Service runs wallet operations on behalf of an authenticated owner.
type Service struct {
	store  Store
	ledger Ledger
	faucet Faucet
	prices PriceFeed // nil disables fiat values
	opts   Options
	logger *zap.Logger
	locks  *ownerLocks
	now    func() time.Time
}

// NewService creates a Service. prices may be nil.
func NewService(store Store, ledger Ledger, faucet Faucet, prices PriceFeed, opts Options, logger *zap.Logger) *Service {
	if opts.LedgerTimeout <= 0 {
		opts.LedgerTimeout = 10 * time.Second
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	if opts.Scrypt.N == 0 {
		opts.Scrypt = crypto.DefaultParams()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		ledger: ledger,
		faucet: faucet,
		prices: prices,
		opts:   opts,
		logger: logger,
		locks:  newOwnerLocks(),
		now:    time.Now,
	}
}

// ledgerContext bounds a ledger call by the configured timeout.
func (s *Service) ledgerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.LedgerTimeout)
}

// getWallet loads the owner's public wallet metadata.
func (s *Service) getWallet(ctx context.Context, ownerID int64) (*model.Wallet, error) {
	w, err := s.store.GetByOwner(ctx, ownerID)
	if errors.Is(err, model.ErrNoWallet) {
		return nil, newError(KindNoWallet, "No wallet found", nil)
	}
	if err != nil {
		return nil, newError(KindUnexpected, "Failed to load wallet", err)
	}
	return w, nil
}

// ledgerError maps a classified client error onto a Kind.
func ledgerError(message string, err error) *Error {
	var rejected *client.RejectedError
	switch {
	case errors.Is(err, client.ErrTimeout):
		return newError(KindSubmissionTimeout, "Ledger did not respond in time", err)
	case errors.As(err, &rejected):
		e := newError(KindSubmissionRejected, message, err)
		e.Detail = rejected.Message
		return e
	case errors.Is(err, client.ErrAccountNotFound):
		return newError(KindDestinationNotFound, "Destination account does not exist", err)
	default:
		return newError(KindUnexpected, message, err)
	}
}

// ownerLocks serializes payments per owner and remembers when each owner
// last paid. Entries live as long as the process; there is one per user.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[int64]*ownerLock
}

type ownerLock struct {
	mu      sync.Mutex
	lastPay time.Time
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[int64]*ownerLock)}
}

// lock blocks until the owner's lock is held and returns it locked.
func (l *ownerLocks) lock(ownerID int64) *ownerLock {
	l.mu.Lock()
	ol, ok := l.locks[ownerID]
	if !ok {
		ol = &ownerLock{}
		l.locks[ownerID] = ol
	}
	l.mu.Unlock()

	ol.mu.Lock()
	return ol
}

func (ol *ownerLock) unlock() {
	ol.mu.Unlock()
}
