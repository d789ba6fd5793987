package usecase_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/bindings"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// MockAccountProvider is a mock implementation of AccountProvider
type MockAccountProvider struct {
	mock.Mock
}

func (m *MockAccountProvider) NamedAccounts(ctx context.Context) (map[string]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.Account), args.Error(1)
}

// MockContractDeployer is a mock implementation of ContractDeployer
type MockContractDeployer struct {
	mock.Mock
}

func (m *MockContractDeployer) Deploy(ctx context.Context, contractName string, opts usecase.DeployOptions) (*models.Deployment, error) {
	args := m.Called(ctx, contractName, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

// MockContractVerifier is a mock implementation of ContractVerifier
type MockContractVerifier struct {
	mock.Mock
}

func (m *MockContractVerifier) Verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error {
	args := m.Called(ctx, deployment, network)
	return args.Error(0)
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) GetDeployment(ctx context.Context, network string, contractName string) (*models.Deployment, error) {
	args := m.Called(ctx, network, contractName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

// MockInteractiveSelector is a mock implementation of InteractiveSelector
type MockInteractiveSelector struct {
	mock.Mock
}

func (m *MockInteractiveSelector) SelectOption(ctx context.Context, prompt string, options []string) (int, error) {
	args := m.Called(ctx, prompt, options)
	return args.Int(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  { m.infos = append(m.infos, message) }
func (m *MockProgressSink) Error(message string) { m.errors = append(m.errors, message) }

func newAccount(name string) *models.Account {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return accountFromKey(name, key)
}

func accountFromKey(name string, key *ecdsa.PrivateKey) *models.Account {
	return &models.Account{Name: name, Address: crypto.PubkeyToAddress(key.PublicKey), PrivateKey: key}
}

// fakeChain emulates the BasicNFT and NFTMarketplace contracts closely enough to drive
// the workflows: it mints sequential token ids, tracks approvals and keeps listings.
type fakeChain struct {
	nftAddr    common.Address
	marketAddr common.Address

	tokenCounter int64
	owners       map[int64]common.Address
	approvals    map[int64]common.Address
	listings     map[string]bindings.Listing

	calls        []string
	block        uint64
	failSubmit   map[string]error
	failWait     map[string]error
	revert       map[string]bool
	dropMintLogs bool
	// onTransact runs after a transaction is recorded
	onTransact func(method string)
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		nftAddr:    common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		marketAddr: common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
		owners:     make(map[int64]common.Address),
		approvals:  make(map[int64]common.Address),
		listings:   make(map[string]bindings.Listing),
		failSubmit: make(map[string]error),
		failWait:   make(map[string]error),
		revert:     make(map[string]bool),
	}
}

func listingKey(nft common.Address, tokenID *big.Int) string {
	return nft.Hex() + "/" + tokenID.String()
}

func (c *fakeChain) called(method string) bool {
	for _, m := range c.calls {
		if m == method {
			return true
		}
	}
	return false
}

// GetDeployedContract implements usecase.ContractRegistry
func (c *fakeChain) GetDeployedContract(ctx context.Context, name string) (usecase.ContractHandle, error) {
	switch name {
	case bindings.NFTMarketplaceName:
		return &fakeHandle{chain: c, name: name, addr: c.marketAddr}, nil
	case bindings.BasicNFTName:
		return &fakeHandle{chain: c, name: name, addr: c.nftAddr}, nil
	}
	return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
}

// ContractAt implements usecase.ContractRegistry
func (c *fakeChain) ContractAt(ctx context.Context, name string, addr common.Address) (usecase.ContractHandle, error) {
	return &fakeHandle{chain: c, name: name, addr: addr}, nil
}

type fakeHandle struct {
	chain *fakeChain
	name  string
	addr  common.Address
}

func (h *fakeHandle) Name() string            { return h.name }
func (h *fakeHandle) Address() common.Address { return h.addr }

func (h *fakeHandle) Transact(ctx context.Context, from *models.Account, value *big.Int, method string, args ...any) (usecase.PendingTransaction, error) {
	c := h.chain
	c.calls = append(c.calls, method)
	if err := c.failSubmit[method]; err != nil {
		return nil, err
	}

	c.block++
	hash := common.BigToHash(big.NewInt(int64(c.block)))
	receipt := &models.Receipt{
		TxHash:      hash,
		Status:      models.ReceiptStatusSuccessful,
		BlockNumber: c.block,
	}

	if c.revert[method] {
		receipt.Status = models.ReceiptStatusFailed
	} else if err := h.apply(from, value, method, args, receipt); err != nil {
		receipt.Status = models.ReceiptStatusFailed
	}

	if c.onTransact != nil {
		c.onTransact(method)
	}
	return &fakePending{hash: hash, receipt: receipt, err: c.failWait[method]}, nil
}

func (h *fakeHandle) apply(from *models.Account, value *big.Int, method string, args []any, receipt *models.Receipt) error {
	c := h.chain
	switch method {
	case "mintNft":
		id := c.tokenCounter
		c.tokenCounter++
		c.owners[id] = from.Address
		if !c.dropMintLogs {
			receipt.Logs = append(receipt.Logs, &types.Log{
				Address: c.nftAddr,
				Topics: []common.Hash{
					bindings.BasicNFTContractABI().Events["Transfer"].ID,
					{},
					common.BytesToHash(from.Address.Bytes()),
					common.BigToHash(big.NewInt(id)),
				},
			})
		}
	case "approve":
		tokenID := args[1].(*big.Int)
		if c.owners[tokenID.Int64()] != from.Address {
			return errors.New("not owner")
		}
		c.approvals[tokenID.Int64()] = args[0].(common.Address)
	case "listItem":
		nft, tokenID, price := args[0].(common.Address), args[1].(*big.Int), args[2].(*big.Int)
		if c.approvals[tokenID.Int64()] != c.marketAddr {
			return errors.New("not approved for marketplace")
		}
		c.listings[listingKey(nft, tokenID)] = bindings.Listing{Price: price, Seller: from.Address}
		event := bindings.MarketplaceABI().Events["ItemListed"]
		data, err := event.Inputs.NonIndexed().Pack(price)
		if err != nil {
			return err
		}
		receipt.Logs = append(receipt.Logs, &types.Log{
			Address: c.marketAddr,
			Topics: []common.Hash{
				event.ID,
				common.BytesToHash(from.Address.Bytes()),
				common.BytesToHash(nft.Bytes()),
				common.BigToHash(tokenID),
			},
			Data: data,
		})
	case "buyItem":
		nft, tokenID := args[0].(common.Address), args[1].(*big.Int)
		listing, ok := c.listings[listingKey(nft, tokenID)]
		if !ok || listing.Price.Sign() == 0 {
			return errors.New("not listed")
		}
		if value == nil || value.Cmp(listing.Price) < 0 {
			return errors.New("price not met")
		}
		c.owners[tokenID.Int64()] = from.Address
		c.listings[listingKey(nft, tokenID)] = bindings.Listing{Price: big.NewInt(0)}
	}
	return nil
}

func (h *fakeHandle) Call(ctx context.Context, method string, args ...any) ([]byte, error) {
	if method != "getListing" {
		return nil, fmt.Errorf("unexpected call %s", method)
	}
	listing, ok := h.chain.listings[listingKey(args[0].(common.Address), args[1].(*big.Int))]
	if !ok {
		listing = bindings.Listing{Price: big.NewInt(0)}
	}
	return bindings.MarketplaceABI().Methods["getListing"].Outputs.Pack(listing)
}

type fakePending struct {
	hash    common.Hash
	receipt *models.Receipt
	err     error
}

func (p *fakePending) Hash() common.Hash { return p.hash }

func (p *fakePending) WaitForConfirmations(ctx context.Context, confirmations uint64) (*models.Receipt, error) {
	if p.err != nil {
		return nil, p.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.receipt.Confirmations = confirmations
	return p.receipt, nil
}
