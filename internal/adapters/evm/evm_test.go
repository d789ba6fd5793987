package evm

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/nftmarket/internal/adapters/artifacts"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/bindings"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/logging"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// creation code whose runtime returns 64 zero bytes for any call
const returnsZeroWords = "0x6005600c60003960056000f360406000f3"

const simulatedChainID = 1337

type stubArtifacts map[string]*artifacts.Contract

func (s stubArtifacts) Load(_ context.Context, name string) (*artifacts.Contract, error) {
	if c, ok := s[name]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func newSimulatedClient(t *testing.T) (*Client, *models.Account) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	account := &models.Account{Name: usecase.DeployerAccount, Address: crypto.PubkeyToAddress(key.PublicKey), PrivateKey: key}

	funds := new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	sim := simulated.NewBackend(types.GenesisAlloc{account.Address: {Balance: funds}})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				sim.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		_ = sim.Close()
	})

	cfg := &config.RuntimeConfig{
		Network:             &config.Network{Name: "simulated", ChainID: simulatedChainID},
		PollInterval:        5 * time.Millisecond,
		ConfirmationTimeout: 10 * time.Second,
	}
	return NewClient(cfg).WithBackend(sim.Client()), account
}

func TestDeployAndTransact(t *testing.T) {
	ctx := context.Background()
	client, account := newSimulatedClient(t)

	bytecode := hexutil.MustDecode(returnsZeroWords)
	source := stubArtifacts{
		bindings.NFTMarketplaceName: {
			Name:       bindings.NFTMarketplaceName,
			SourceName: "contracts/NFTMarketplace.sol",
			ABI:        bindings.MarketplaceABI(),
			Bytecode:   bytecode,
		},
	}

	deployment, err := NewDeployer(client, source, logging.NewNop()).
		Deploy(ctx, bindings.NFTMarketplaceName, usecase.DeployOptions{From: account, WaitConfirmations: 2})
	require.NoError(t, err)

	assert.True(t, common.IsHexAddress(deployment.Address))
	assert.Equal(t, "simulated", deployment.Network)
	assert.Equal(t, uint64(simulatedChainID), deployment.ChainID)
	assert.Equal(t, account.Address.Hex(), deployment.Deployer)
	assert.Empty(t, deployment.ConstructorArgs)
	assert.GreaterOrEqual(t, deployment.ConfirmationsWaited, uint64(2))
	assert.Equal(t, "contracts/NFTMarketplace.sol:NFTMarketplace", deployment.ContractPath())
	assert.Equal(t, crypto.Keccak256Hash(bytecode).Hex(), deployment.Artifact.BytecodeHash)

	market := NewContract(client, bindings.NFTMarketplaceName, common.HexToAddress(deployment.Address), bindings.MarketplaceABI())

	pending, err := market.Transact(ctx, account, nil, "cancelListing", common.HexToAddress("0x01"), big.NewInt(1))
	require.NoError(t, err)
	receipt, err := pending.WaitForConfirmations(ctx, 1)
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())
	assert.Equal(t, pending.Hash(), receipt.TxHash)

	data, err := market.Call(ctx, "getListing", common.HexToAddress("0x01"), big.NewInt(1))
	require.NoError(t, err)
	listing, err := bindings.UnpackListing(data)
	require.NoError(t, err)
	assert.Equal(t, 0, listing.Price.Sign())
}

func TestContract_NoCode(t *testing.T) {
	ctx := context.Background()
	client, account := newSimulatedClient(t)

	empty := NewContract(client, bindings.BasicNFTName, common.HexToAddress("0x000000000000000000000000000000000000dEaD"), bindings.BasicNFTContractABI())

	_, err := empty.Call(ctx, "getTokenCounter")
	assert.ErrorContains(t, err, "no contract code")

	_, err = empty.Transact(ctx, account, nil, "mintNft")
	assert.Error(t, err)
}

func TestDeployer_MissingBytecode(t *testing.T) {
	client := NewClient(&config.RuntimeConfig{})
	source := stubArtifacts{"Iface": {Name: "Iface", Path: "out/Iface.sol/Iface.json"}}

	_, err := NewDeployer(client, source, logging.NewNop()).Deploy(context.Background(), "Iface", usecase.DeployOptions{})
	assert.ErrorContains(t, err, "no creation bytecode")

	_, err = NewDeployer(client, source, logging.NewNop()).Deploy(context.Background(), "Missing", usecase.DeployOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Backend(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(&config.RuntimeConfig{}).Backend(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownNetwork)

	_, err = NewClient(&config.RuntimeConfig{Network: &config.Network{Name: "sepolia"}}).Backend(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownNetwork)

	sim := simulated.NewBackend(types.GenesisAlloc{})
	defer sim.Close()

	dials := 0
	dial := func(ctx context.Context, rpcURL string) (Backend, error) {
		dials++
		return sim.Client(), nil
	}

	mismatch := NewClient(&config.RuntimeConfig{Network: &config.Network{Name: "mainnet", RPCURL: "http://rpc", ChainID: 1}}).WithDial(dial)
	_, err = mismatch.Backend(ctx)
	assert.ErrorContains(t, err, "chain ID mismatch")

	lazy := NewClient(&config.RuntimeConfig{Network: &config.Network{Name: "sim", RPCURL: "http://rpc"}}).WithDial(dial)
	before := dials
	_, err = lazy.Backend(ctx)
	require.NoError(t, err)
	_, err = lazy.Backend(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, dials)

	id, err := lazy.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(simulatedChainID), id.Int64())
}
