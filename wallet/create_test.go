package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_ShortPassword(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.Create(context.Background(), 1, []byte("short"))
	requireKind(t, err, KindInvalidInput)
	assert.Zero(t, env.store.count())
}

func TestCreate_Funded(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.svc.Create(context.Background(), 1, []byte(testPassword))
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, model.FundingFunded, resp.FundingStatus)

	pub, err := solana.PublicKeyFromBase58(resp.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), env.ledger.accounts[pub])

	png, err := base64.StdEncoding.DecodeString(resp.QR)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))

	stored, err := env.store.GetByOwner(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.FundingFunded, stored.FundingStatus)

	vault, err := env.store.Vault(context.Background(), 1)
	require.NoError(t, err)
	key, err := vault.Open([]byte(testPassword))
	require.NoError(t, err)
	assert.Equal(t, pub, key.PublicKey())
	key.Close()
}

func TestCreate_FaucetFailureKeepsWallet(t *testing.T) {
	env := newTestEnv(t, nil)
	env.faucet.err = errors.New("airdrop limit reached")

	resp, err := env.svc.Create(context.Background(), 1, []byte(testPassword))
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, model.FundingPending, resp.FundingStatus)
	assert.Contains(t, resp.Message, "fund it manually")
	assert.Equal(t, 1, env.store.count())
}

func TestCreate_OneWalletPerOwner(t *testing.T) {
	env := newTestEnv(t, nil)

	first, err := env.svc.Create(context.Background(), 1, []byte(testPassword))
	require.NoError(t, err)

	second, err := env.svc.Create(context.Background(), 1, []byte("another-password"))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.PublicKey, second.PublicKey)
	assert.Equal(t, 1, env.store.count())
	assert.Equal(t, 1, env.faucet.calls)

	// The first password still unlocks the wallet.
	vault, err := env.store.Vault(context.Background(), 1)
	require.NoError(t, err)
	key, err := vault.Open([]byte(testPassword))
	require.NoError(t, err)
	key.Close()
}

func TestCreate_Concurrent(t *testing.T) {
	env := newTestEnv(t, nil)

	var wg sync.WaitGroup
	keys := make([]string, 8)
	for i := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := env.svc.Create(context.Background(), 1, []byte(testPassword))
			if assert.NoError(t, err) {
				keys[i] = resp.PublicKey
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, env.store.count())
	for _, k := range keys {
		assert.Equal(t, keys[0], k)
	}
}

func TestFund(t *testing.T) {
	env := newTestEnv(t, nil)
	env.faucet.err = errors.New("faucet down")
	_, err := env.svc.Create(context.Background(), 1, []byte(testPassword))
	require.NoError(t, err)

	_, err = env.svc.Fund(context.Background(), 1)
	requireKind(t, err, KindUnexpected)

	env.faucet.err = nil
	resp, err := env.svc.Fund(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.FundingFunded, resp.FundingStatus)
	assert.NotEmpty(t, resp.TransactionHash)

	resp, err = env.svc.Fund(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Wallet already funded", resp.Message)
	assert.Equal(t, 3, env.faucet.calls, "funded wallets are not airdropped again")
}

func TestFund_FaucetDisabled(t *testing.T) {
	env := newTestEnv(t, nil)
	env.svc.opts.FaucetLamports = 0
	_, err := env.svc.Create(context.Background(), 1, []byte(testPassword))
	require.NoError(t, err)

	_, err = env.svc.Fund(context.Background(), 1)
	requireKind(t, err, KindInvalidInput)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "Faucet disabled", werr.Message)
	assert.Zero(t, env.faucet.calls)
}

func TestFund_NoWallet(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.svc.Fund(context.Background(), 1)
	requireKind(t, err, KindNoWallet)
}

func TestWallet(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.Wallet(context.Background(), 1)
	requireKind(t, err, KindNoWallet)

	priv := env.seedWallet(t, 1, testPassword, 0)
	resp, err := env.svc.Wallet(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, priv.PublicKey().String(), resp.PublicKey)
	assert.Equal(t, model.FundingPending, resp.FundingStatus)
	assert.NotEmpty(t, resp.QR)
}
