package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// Contract is a handle to a deployed contract on the client's network
type Contract struct {
	name    string
	address common.Address
	abi     abi.ABI
	client  *Client
}

// NewContract creates a handle for the contract at address
func NewContract(client *Client, name string, address common.Address, contractABI abi.ABI) *Contract {
	return &Contract{
		name:    name,
		address: address,
		abi:     contractABI,
		client:  client,
	}
}

func (c *Contract) Name() string            { return c.name }
func (c *Contract) Address() common.Address { return c.address }

// Transact signs and submits a state-changing call from the given account
func (c *Contract) Transact(ctx context.Context, from *models.Account, value *big.Int, method string, args ...any) (usecase.PendingTransaction, error) {
	backend, err := c.client.Backend(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := c.client.transactor(ctx, from)
	if err != nil {
		return nil, err
	}
	opts.Value = value

	bound := bind.NewBoundContract(c.address, c.abi, backend, backend, backend)
	tx, err := bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, err)
	}

	waiter, err := c.client.Waiter(ctx)
	if err != nil {
		return nil, err
	}
	return &pendingTx{hash: tx.Hash(), waiter: waiter}, nil
}

// Call executes a read-only call against the latest block and returns the raw output
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]byte, error) {
	backend, err := c.client.Backend(ctx)
	if err != nil {
		return nil, err
	}
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.%s: %w", c.name, method, err)
	}
	output, err := backend.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, err)
	}
	if len(output) == 0 {
		code, err := backend.CodeAt(ctx, c.address, nil)
		if err == nil && len(code) == 0 {
			return nil, fmt.Errorf("%s.%s: no contract code at %s", c.name, method, c.address.Hex())
		}
	}
	return output, nil
}

type pendingTx struct {
	hash   common.Hash
	waiter *Waiter
}

func (p *pendingTx) Hash() common.Hash { return p.hash }

func (p *pendingTx) WaitForConfirmations(ctx context.Context, confirmations uint64) (*models.Receipt, error) {
	return p.waiter.Wait(ctx, p.hash, confirmations)
}

var _ usecase.ContractHandle = (*Contract)(nil)
