package wallet

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/client"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSend_Success(t *testing.T) {
	env := newTestEnv(t, nil)
	priv := env.seedWallet(t, 1, testPassword, 10_000_000_000)
	dest := env.newDestination(t)

	resp, err := env.svc.Send(context.Background(), 1, SendRequest{
		Recipient: dest.String(),
		Amount:    "5",
		Password:  []byte(testPassword),
	})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.TransactionHash)

	require.Len(t, env.ledger.submitted, 1)
	tx := env.ledger.submitted[0]
	assert.Equal(t, resp.TransactionHash, tx.Signatures[0].String())
	assert.Equal(t, priv.PublicKey(), tx.Message.AccountKeys[0], "sender pays the fee")
	assert.Equal(t, env.ledger.blockhash, tx.Message.RecentBlockhash)
	require.NoError(t, tx.VerifySignatures())

	require.Len(t, tx.Message.Instructions, 1)
	inst := tx.Message.Instructions[0]
	programID, err := tx.Message.Program(inst.ProgramIDIndex)
	require.NoError(t, err)
	assert.Equal(t, solana.SystemProgramID, programID)
	require.Len(t, inst.Data, 12)
	assert.Equal(t, uint32(system.Instruction_Transfer), binary.LittleEndian.Uint32(inst.Data[:4]))
	assert.Equal(t, uint64(5_000_000_000), binary.LittleEndian.Uint64(inst.Data[4:]))
	require.Len(t, inst.Accounts, 2)
	assert.Equal(t, dest, tx.Message.AccountKeys[inst.Accounts[1]])
}

func TestSend_InvalidInput(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedWallet(t, 1, testPassword, 10_000_000_000)
	dest := env.newDestination(t).String()

	tests := map[string]SendRequest{
		"zero amount":        {Recipient: dest, Amount: "0", Password: []byte(testPassword)},
		"negative amount":    {Recipient: dest, Amount: "-1", Password: []byte(testPassword)},
		"non numeric amount": {Recipient: dest, Amount: "abc", Password: []byte(testPassword)},
		"sub lamport amount": {Recipient: dest, Amount: "0.0000000001", Password: []byte(testPassword)},
		"missing recipient":  {Amount: "1", Password: []byte(testPassword)},
		"missing amount":     {Recipient: dest, Password: []byte(testPassword)},
		"missing password":   {Recipient: dest, Amount: "1"},
		"bad recipient":      {Recipient: "not-an-address", Amount: "1", Password: []byte(testPassword)},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Send(context.Background(), 1, req)
			requireKind(t, err, KindInvalidInput)
		})
	}
	assert.Zero(t, env.ledger.loadCalls)
	assert.Zero(t, env.ledger.submissions())
}

func TestSend_ToSelf(t *testing.T) {
	env := newTestEnv(t, nil)
	priv := env.seedWallet(t, 1, testPassword, 10_000_000_000)

	_, err := env.svc.Send(context.Background(), 1, SendRequest{
		Recipient: priv.PublicKey().String(),
		Amount:    "1",
		Password:  []byte(testPassword),
	})
	requireKind(t, err, KindInvalidInput)
}

func TestSend_NoWallet(t *testing.T) {
	env := newTestEnv(t, nil)
	dest := env.newDestination(t)

	_, err := env.svc.Send(context.Background(), 1, SendRequest{
		Recipient: dest.String(),
		Amount:    "1",
		Password:  []byte(testPassword),
	})
	requireKind(t, err, KindNoWallet)
}

func TestSend_WrongPasswordNeverReachesLedger(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedWallet(t, 1, testPassword, 10_000_000_000)
	dest := env.newDestination(t)

	_, err := env.svc.Send(context.Background(), 1, SendRequest{
		Recipient: dest.String(),
		Amount:    "1",
		Password:  []byte("wrong-password"),
	})
	werr := requireKind(t, err, KindUnauthorized)
	assert.Equal(t, "Invalid transaction password", werr.Message)
	assert.Zero(t, env.ledger.loadCalls)
	assert.Zero(t, env.ledger.submissions())
}

func TestSend_DestinationNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedWallet(t, 1, testPassword, 10_000_000_000)

	_, err := env.svc.Send(context.Background(), 1, SendRequest{
		Recipient: solana.NewWallet().PublicKey().String(),
		Amount:    "1",
		Password:  []byte(testPassword),
	})
	requireKind(t, err, KindDestinationNotFound)
	assert.Zero(t, env.ledger.submissions())
}

func TestSend_SubmissionFailures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      Kind
		retryable bool
		detail    string
	}{
		{
			name:   "rejected",
			err:    &client.RejectedError{Code: -32002, Message: "insufficient funds for rent"},
			kind:   KindSubmissionRejected,
			detail: "insufficient funds for rent",
		},
		{
			name:      "timeout",
			err:       fmt.Errorf("%w: context deadline exceeded", client.ErrTimeout),
			kind:      KindSubmissionTimeout,
			retryable: true,
		},
		{
			name: "unexpected",
			err:  fmt.Errorf("connection reset"),
			kind: KindUnexpected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.seedWallet(t, 1, testPassword, 10_000_000_000)
			dest := env.newDestination(t)
			env.ledger.submitErr = tt.err

			_, err := env.svc.Send(context.Background(), 1, SendRequest{
				Recipient: dest.String(),
				Amount:    "1",
				Password:  []byte(testPassword),
			})
			werr := requireKind(t, err, tt.kind)
			assert.Equal(t, tt.retryable, werr.Kind.Retryable())
			assert.Equal(t, tt.detail, werr.Detail)
		})
	}
}

func TestSend_Cooldown(t *testing.T) {
	env := newTestEnv(t, nil)
	env.svc.opts.PayCooldown = time.Minute
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	env.seedWallet(t, 1, testPassword, 10_000_000_000)
	dest := env.newDestination(t)
	req := SendRequest{Recipient: dest.String(), Amount: "1", Password: []byte(testPassword)}

	_, err := env.svc.Send(context.Background(), 1, req)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = env.svc.Send(context.Background(), 1, req)
	werr := requireKind(t, err, KindRateLimited)
	assert.True(t, werr.Kind.Retryable())

	now = now.Add(31 * time.Second)
	_, err = env.svc.Send(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, 2, env.ledger.submissions())
}

func TestSend_Concurrent(t *testing.T) {
	env := newTestEnv(t, nil)
	gate := make(chan struct{})
	env.ledger.gate = gate

	alice := env.seedWallet(t, 1, testPassword, 100_000_000_000).PublicKey()
	bob := env.seedWallet(t, 2, testPassword, 100_000_000_000).PublicKey()
	dest := env.newDestination(t)
	req := SendRequest{Recipient: dest.String(), Amount: "1", Password: []byte(testPassword)}

	const n = 5
	var wg sync.WaitGroup
	errs := make(chan error, n+1)
	send := func(ownerID int64) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Send(context.Background(), ownerID, req)
			errs <- err
		}()
	}

	for i := 0; i < n; i++ {
		send(1)
	}
	require.Eventually(t, func() bool {
		current, _ := env.ledger.inFlightFor(alice)
		return current == 1
	}, 5*time.Second, time.Millisecond)
	assert.Never(t, func() bool {
		_, peak := env.ledger.inFlightFor(alice)
		return peak > 1
	}, 100*time.Millisecond, 5*time.Millisecond, "owner 1 payments overlapped")

	// Owner 2 reaches the ledger while owner 1 is still held there.
	send(2)
	require.Eventually(t, func() bool {
		current, _ := env.ledger.inFlightFor(bob)
		return current == 1
	}, 5*time.Second, time.Millisecond, "owner 2 blocked behind owner 1")

	for i := 0; i < n+1; i++ {
		gate <- struct{}{}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, n+1, env.ledger.submissions())
	_, alicePeak := env.ledger.inFlightFor(alice)
	_, bobPeak := env.ledger.inFlightFor(bob)
	assert.Equal(t, 1, alicePeak)
	assert.Equal(t, 1, bobPeak)
}

func TestSend_SecretsNeverLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	env := newTestEnv(t, zap.New(core))
	priv := env.seedWallet(t, 1, testPassword, 10_000_000_000)
	dest := env.newDestination(t)

	_, err := env.svc.Send(context.Background(), 1, SendRequest{Recipient: dest.String(), Amount: "1", Password: []byte(testPassword)})
	require.NoError(t, err)
	_, err = env.svc.Send(context.Background(), 1, SendRequest{Recipient: dest.String(), Amount: "1", Password: []byte("bad-password")})
	require.Error(t, err)
	env.ledger.submitErr = &client.RejectedError{Code: -32002, Message: "blockhash not found"}
	_, err = env.svc.Send(context.Background(), 1, SendRequest{Recipient: dest.String(), Amount: "1", Password: []byte(testPassword)})
	require.Error(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		line := entry.Message + fmt.Sprint(entry.ContextMap())
		assert.NotContains(t, line, testPassword)
		assert.NotContains(t, line, "bad-password")
		assert.NotContains(t, line, priv.String())
	}
}
