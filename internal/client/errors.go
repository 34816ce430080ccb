package client

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

var (
	// ErrAccountNotFound means the ledger has no such account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTimeout means the ledger did not answer in time. The request may be retried.
	ErrTimeout = errors.New("ledger request timed out")
	// ErrRejected means the ledger answered with an error. Retrying the same request will not help.
	ErrRejected = errors.New("ledger rejected the request")
)

// RejectedError carries the ledger's own error code and message.
type RejectedError struct {
	Code    int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("ledger rejected the request (code %d): %s", e.Code, e.Message)
}

// Is makes errors.Is(err, ErrRejected) true for every RejectedError.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// ClassifyError maps raw RPC and transport errors onto ErrAccountNotFound,
// ErrTimeout or *RejectedError. Anything else is returned wrapped as is.
func ClassifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, rpc.ErrNotFound) {
		return ErrAccountNotFound
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return &RejectedError{Code: rpcErr.Code, Message: rpcErr.Message}
	}

	return fmt.Errorf("ledger request failed: %w", err)
}
