package client

import (
	"context"
	"errors"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/common"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaClient is a client for working with Solana RPC
type SolanaClient struct {
	rpcClient *rpc.Client
}

// NewSolanaClient creates a new Solana client for the given RPC endpoint.
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
	}
}

// LoadAccount returns the account's lamport balance.
// Returns ErrAccountNotFound if the account does not exist on the ledger.
func (c *SolanaClient) LoadAccount(ctx context.Context, account solana.PublicKey) (*model.AccountState, error) {
	info, err := c.rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, ClassifyError(ctx, err)
	}
	if info == nil || info.Value == nil {
		return nil, ErrAccountNotFound
	}
	return &model.AccountState{Lamports: info.Value.Lamports}, nil
}

// LatestBlockhash gets the blockhash new transactions must reference.
func (c *SolanaClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, ClassifyError(ctx, err)
	}
	return recent.Value.Blockhash, nil
}

// Submit sends a signed transaction with preflight checks.
func (c *SolanaClient) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false, // Transaction validation before node
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		return solana.Signature{}, ClassifyError(ctx, err)
	}
	return sig, nil
}

// Fund asks the cluster faucet to airdrop lamports to account.
func (c *SolanaClient) Fund(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpcClient.RequestAirdrop(ctx, account, lamports, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Signature{}, ClassifyError(ctx, err)
	}
	return sig, nil
}

// Transactions gets the most recent native SOL transfers touching account.
func (c *SolanaClient) Transactions(ctx context.Context, account solana.PublicKey, limit int) ([]model.Transaction, error) {
	sigs, err := c.rpcClient.GetSignaturesForAddressWithOpts(
		ctx,
		account,
		&rpc.GetSignaturesForAddressOpts{
			Limit: &limit,
		},
	)
	if err != nil {
		return nil, ClassifyError(ctx, err)
	}

	transactions := make([]model.Transaction, 0, len(sigs))
	for _, s := range sigs {
		// maxVersion is hardcoded - new version support requires a library update anyway
		maxVersion := uint64(0)
		tx, err := c.rpcClient.GetTransaction(
			ctx,
			s.Signature,
			&rpc.GetTransactionOpts{
				Encoding:                       solana.EncodingBase64,
				MaxSupportedTransactionVersion: &maxVersion,
			},
		)
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) {
				continue
			}
			return nil, ClassifyError(ctx, err)
		}

		if parsed, ok := parseTransaction(account, tx, s.Signature); ok {
			transactions = append(transactions, parsed)
		}
	}

	return transactions, nil
}

// parseTransaction extracts the owner's native transfer from a fetched transaction.
func parseTransaction(owner solana.PublicKey, tx *rpc.GetTransactionResult, signature solana.Signature) (model.Transaction, bool) {
	if tx == nil || tx.Meta == nil || tx.Transaction == nil {
		return model.Transaction{}, false
	}

	decodedTx, err := tx.Transaction.GetTransaction()
	if err != nil || decodedTx == nil {
		return model.Transaction{}, false
	}

	transfer, ok := parseTransfer(owner, decodedTx.Message.AccountKeys, tx.Meta.PreBalances, tx.Meta.PostBalances, tx.Meta.Fee)
	if !ok {
		return model.Transaction{}, false
	}

	transfer.TxID = signature.String()
	transfer.BlockNumber = int64(tx.Slot)
	transfer.Timestamp = time.Now()
	if tx.BlockTime != nil {
		transfer.Timestamp = time.Unix(int64(*tx.BlockTime), 0)
	}
	transfer.Status = "success"
	if tx.Meta.Err != nil {
		transfer.Status = "failed"
	}
	return transfer, true
}

// parseTransfer works out the owner's SOL movement from pre/post balances.
// The fee payer (index 0) has the fee added back so that only real transfers show.
func parseTransfer(owner solana.PublicKey, keys []solana.PublicKey, pre, post []uint64, fee uint64) (model.Transaction, bool) {
	if len(pre) < len(keys) || len(post) < len(keys) {
		return model.Transaction{}, false
	}

	ownerIndex := -1
	for i, key := range keys {
		if key.Equals(owner) {
			ownerIndex = i
			break
		}
	}
	if ownerIndex < 0 {
		return model.Transaction{}, false
	}

	delta := int64(post[ownerIndex]) - int64(pre[ownerIndex])
	isFeePayer := ownerIndex == 0
	if isFeePayer {
		delta += int64(fee)
	}
	if delta == 0 {
		return model.Transaction{}, false
	}

	ownerStr := owner.String()
	tx := model.Transaction{FeeSOL: "0"}

	if delta > 0 {
		tx.Type = model.TransactionTypeCredit
		tx.Amount = common.LamportsToSOL(uint64(delta))
		tx.To = ownerStr
		for i, key := range keys {
			if pre[i] > post[i] && !key.Equals(owner) {
				tx.From = key.String()
				break
			}
		}
		return tx, true
	}

	tx.Type = model.TransactionTypeDebit
	tx.Amount = common.LamportsToSOL(uint64(-delta))
	tx.From = ownerStr
	for i, key := range keys {
		if post[i] > pre[i] && !key.Equals(owner) {
			tx.To = key.String()
			break
		}
	}
	if isFeePayer {
		tx.FeeSOL = common.LamportsToSOL(fee)
	}
	return tx, true
}
