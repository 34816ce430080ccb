package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/client"
	"github.com/AlexZinkM/lumen-wallet/internal/crypto"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testScrypt = crypto.Params{N: 1 << 10}

const testPassword = "pw123456"

type storedWallet struct {
	wallet model.Wallet
	sealed crypto.Sealed
}

type memStore struct {
	mu      sync.Mutex
	wallets map[int64]*storedWallet
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{wallets: make(map[int64]*storedWallet)}
}

func (m *memStore) Create(_ context.Context, ownerID int64, publicKey string, sealed crypto.Sealed) (*model.Wallet, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sw, ok := m.wallets[ownerID]; ok {
		w := sw.wallet
		return &w, false, nil
	}
	m.nextID++
	now := time.Now().UTC()
	sw := &storedWallet{
		wallet: model.Wallet{
			ID:            m.nextID,
			OwnerID:       ownerID,
			PublicKey:     publicKey,
			FundingStatus: model.FundingPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		sealed: sealed,
	}
	m.wallets[ownerID] = sw
	w := sw.wallet
	return &w, true, nil
}

func (m *memStore) GetByOwner(_ context.Context, ownerID int64) (*model.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sw, ok := m.wallets[ownerID]
	if !ok {
		return nil, model.ErrNoWallet
	}
	w := sw.wallet
	return &w, nil
}

func (m *memStore) Vault(_ context.Context, ownerID int64) (*crypto.Vault, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sw, ok := m.wallets[ownerID]
	if !ok {
		return nil, model.ErrNoWallet
	}
	return crypto.NewVault(solana.MustPublicKeyFromBase58(sw.wallet.PublicKey), sw.sealed), nil
}

func (m *memStore) SetFundingStatus(_ context.Context, ownerID int64, status model.FundingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sw, ok := m.wallets[ownerID]
	if !ok {
		return model.ErrNoWallet
	}
	sw.wallet.FundingStatus = status
	sw.wallet.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.wallets)
}

type fakeLedger struct {
	mu         sync.Mutex
	accounts   map[solana.PublicKey]uint64
	blockhash  solana.Hash
	loadErr    error
	submitErr  error
	history    []model.Transaction
	historyErr error

	loadCalls int
	submitted []*solana.Transaction

	// gate, when set, holds every Submit until a value is received or it is closed.
	gate        chan struct{}
	inFlight    map[solana.PublicKey]int
	maxInFlight map[solana.PublicKey]int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts:  make(map[solana.PublicKey]uint64),
		blockhash: solana.Hash{1, 2, 3, 4},
	}
}

func (f *fakeLedger) LoadAccount(_ context.Context, account solana.PublicKey) (*model.AccountState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	lamports, ok := f.accounts[account]
	if !ok {
		return nil, client.ErrAccountNotFound
	}
	return &model.AccountState{Lamports: lamports}, nil
}

func (f *fakeLedger) LatestBlockhash(context.Context) (solana.Hash, error) {
	return f.blockhash, nil
}

func (f *fakeLedger) Submit(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	payer := tx.Message.AccountKeys[0]

	f.mu.Lock()
	if f.inFlight == nil {
		f.inFlight = make(map[solana.PublicKey]int)
		f.maxInFlight = make(map[solana.PublicKey]int)
	}
	f.inFlight[payer]++
	if f.inFlight[payer] > f.maxInFlight[payer] {
		f.maxInFlight[payer] = f.inFlight[payer]
	}
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight[payer]--
	if f.submitErr != nil {
		return solana.Signature{}, f.submitErr
	}
	f.submitted = append(f.submitted, tx)
	return tx.Signatures[0], nil
}

func (f *fakeLedger) Transactions(context.Context, solana.PublicKey, int) ([]model.Transaction, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

// inFlightFor returns the current and peak number of Submit calls paid by payer.
func (f *fakeLedger) inFlightFor(payer solana.PublicKey) (current, peak int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight[payer], f.maxInFlight[payer]
}

func (f *fakeLedger) submissions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

type fakeFaucet struct {
	mu     sync.Mutex
	err    error
	ledger *fakeLedger
	calls  int
}

func (f *fakeFaucet) Fund(_ context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return solana.Signature{}, f.err
	}
	if f.ledger != nil {
		f.ledger.mu.Lock()
		f.ledger.accounts[account] += lamports
		f.ledger.mu.Unlock()
	}
	return solana.Signature{9, 9, 9}, nil
}

type fakePrices struct {
	rate string
	err  error
}

func (f fakePrices) SOLRate(context.Context, string) (string, error) {
	return f.rate, f.err
}

type testEnv struct {
	svc    *Service
	store  *memStore
	ledger *fakeLedger
	faucet *fakeFaucet
}

func newTestEnv(t *testing.T, logger *zap.Logger) *testEnv {
	t.Helper()
	if logger == nil {
		logger = zap.NewNop()
	}
	store := newMemStore()
	ledger := newFakeLedger()
	faucet := &fakeFaucet{ledger: ledger}
	svc := NewService(store, ledger, faucet, nil, Options{
		LedgerTimeout:  time.Second,
		FaucetLamports: 1_000_000_000,
		HistoryLimit:   50,
		Scrypt:         testScrypt,
		PriceCurrency:  "usd",
	}, logger)
	return &testEnv{svc: svc, store: store, ledger: ledger, faucet: faucet}
}

// seedWallet stores a wallet with a known key for ownerID and returns the key.
func (e *testEnv) seedWallet(t *testing.T, ownerID int64, password string, lamports uint64) solana.PrivateKey {
	t.Helper()
	priv, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	sealed, err := crypto.Seal(priv, []byte(password), testScrypt)
	require.NoError(t, err)
	_, created, err := e.store.Create(context.Background(), ownerID, priv.PublicKey().String(), sealed)
	require.NoError(t, err)
	require.True(t, created)
	e.ledger.accounts[priv.PublicKey()] = lamports
	return priv
}

// newDestination registers an existing ledger account and returns its address.
func (e *testEnv) newDestination(t *testing.T) solana.PublicKey {
	t.Helper()
	pub := solana.NewWallet().PublicKey()
	e.ledger.accounts[pub] = 1
	return pub
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, kind, werr.Kind, "error: %v", err)
	return werr
}
