package evm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
)

// ReceiptSource reads receipts and the chain head
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Waiter polls for a transaction receipt until it has enough confirmations
type Waiter struct {
	source       ReceiptSource
	pollInterval time.Duration
	timeout      time.Duration
	attempts     uint
	retryDelay   time.Duration
}

// NewWaiter creates a new waiter
func NewWaiter(source ReceiptSource, pollInterval, timeout time.Duration) *Waiter {
	return &Waiter{
		source:       source,
		pollInterval: pollInterval,
		timeout:      timeout,
		attempts:     3,
		retryDelay:   pollInterval / 4,
	}
}

// Wait blocks until txHash is mined and head - block + 1 >= confirmations. A reverted
// transaction fails with ErrTransactionFailed, an expired wait with ErrConfirmationTimeout.
func (w *Waiter) Wait(parent context.Context, txHash common.Hash, confirmations uint64) (*models.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}

	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, head, err := w.poll(ctx, txHash)
		if err != nil && ctx.Err() == nil {
			return nil, err
		}

		if receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("%w: %s reverted in block %s", domain.ErrTransactionFailed, txHash.Hex(), receipt.BlockNumber)
			}
			if got := observedConfirmations(receipt, head); got >= confirmations {
				return models.NewReceipt(receipt, got), nil
			}
		}

		select {
		case <-ctx.Done():
			if parent.Err() != nil {
				return nil, parent.Err()
			}
			return nil, fmt.Errorf("%w: %s after %s", domain.ErrConfirmationTimeout, txHash.Hex(), w.timeout)
		case <-ticker.C:
		}
	}
}

// poll fetches the receipt and the head block. A missing receipt is not an error; transient
// RPC failures are retried a bounded number of times.
func (w *Waiter) poll(ctx context.Context, txHash common.Hash) (*types.Receipt, uint64, error) {
	var (
		receipt *types.Receipt
		head    uint64
	)

	err := retry.Do(
		func() error {
			r, err := w.source.TransactionReceipt(ctx, txHash)
			if errors.Is(err, ethereum.NotFound) {
				receipt = nil
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get receipt: %w", err)
			}
			receipt = r

			head, err = w.source.BlockNumber(ctx)
			if err != nil {
				return fmt.Errorf("failed to get block number: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	return receipt, head, err
}

func observedConfirmations(receipt *types.Receipt, head uint64) uint64 {
	if receipt.BlockNumber == nil {
		return 0
	}
	block := receipt.BlockNumber.Uint64()
	if head < block {
		return 0
	}
	return head - block + 1
}
