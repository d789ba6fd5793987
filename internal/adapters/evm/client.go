package evm

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
)

const (
	DefaultPollInterval        = 2 * time.Second
	DefaultConfirmationTimeout = 3 * time.Minute
)

// Backend is the part of an Ethereum client the adapters rely on. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ReceiptSource
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc connects to a JSON-RPC endpoint
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

func dialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Client is a lazily connected chain client for the selected network. Commands that never
// touch the chain never dial.
type Client struct {
	network             *config.Network
	pollInterval        time.Duration
	confirmationTimeout time.Duration

	mu      sync.Mutex
	dial    DialFunc
	backend Backend
	chainID *big.Int
}

// NewClient creates a new client for the network in the runtime configuration
func NewClient(cfg *config.RuntimeConfig) *Client {
	c := &Client{
		network:             cfg.Network,
		pollInterval:        cfg.PollInterval,
		confirmationTimeout: cfg.ConfirmationTimeout,
		dial:                dialEthclient,
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.confirmationTimeout <= 0 {
		c.confirmationTimeout = DefaultConfirmationTimeout
	}
	return c
}

// WithBackend uses an already connected backend instead of dialing
func (c *Client) WithBackend(backend Backend) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backend = backend
	return c
}

// WithDial replaces the function used to connect
func (c *Client) WithDial(dial DialFunc) *Client {
	c.dial = dial
	return c
}

// Network returns the network this client talks to
func (c *Client) Network() *config.Network {
	return c.network
}

// Backend returns the connected backend, dialing on first use
func (c *Client) Backend(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}
	if c.network == nil {
		return nil, fmt.Errorf("%w: no network selected", domain.ErrUnknownNetwork)
	}
	if c.network.RPCURL == "" {
		return nil, fmt.Errorf("%w: network %s has no rpc_url", domain.ErrUnknownNetwork, c.network.Name)
	}

	backend, err := c.dial(ctx, c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if c.network.ChainID != 0 && networkChainID.Uint64() != c.network.ChainID {
		return nil, fmt.Errorf("chain ID mismatch for %s: expected %d, got %d",
			c.network.Name, c.network.ChainID, networkChainID.Uint64())
	}

	c.backend = backend
	c.chainID = networkChainID
	return backend, nil
}

// ChainID returns the chain id of the connected network
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID == nil {
		id, err := backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
		c.chainID = id
	}
	return c.chainID, nil
}

// Waiter returns a confirmation waiter bound to this client's backend
func (c *Client) Waiter(ctx context.Context) (*Waiter, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return nil, err
	}
	return NewWaiter(backend, c.pollInterval, c.confirmationTimeout), nil
}

// Close releases the underlying connection if one was opened
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
	c.backend = nil
}

// transactor builds signing options for a named account
func (c *Client) transactor(ctx context.Context, from *models.Account) (*bind.TransactOpts, error) {
	if from == nil || from.PrivateKey == nil {
		return nil, fmt.Errorf("no signing key for account")
	}
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(from.PrivateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor for %s: %w", from.Name, err)
	}
	opts.Context = ctx
	return opts, nil
}
