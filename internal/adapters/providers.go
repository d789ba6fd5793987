package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/nftmarket/internal/adapters/accounts"
	"github.com/trebuchet-org/nftmarket/internal/adapters/artifacts"
	"github.com/trebuchet-org/nftmarket/internal/adapters/evm"
	"github.com/trebuchet-org/nftmarket/internal/adapters/interactive"
	"github.com/trebuchet-org/nftmarket/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/nftmarket/internal/adapters/verification"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// ProvideClient provides the lazily connected chain client and its cleanup
func ProvideClient(cfg *config.RuntimeConfig) (*evm.Client, func()) {
	client := evm.NewClient(cfg)
	return client, client.Close
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),

	artifacts.NewLoader,
	wire.Bind(new(evm.ArtifactSource), new(*artifacts.Loader)),
)

// ChainSet provides go-ethereum based implementations
var ChainSet = wire.NewSet(
	ProvideClient,

	evm.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*evm.Deployer)),

	evm.NewRegistry,
	wire.Bind(new(usecase.ContractRegistry), new(*evm.Registry)),
)

// AccountSet provides configured signer accounts
var AccountSet = wire.NewSet(
	accounts.NewProvider,
	wire.Bind(new(usecase.AccountProvider), new(*accounts.Provider)),
)

// VerificationSet provides explorer verification
var VerificationSet = wire.NewSet(
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.ForgeVerifier)),
)

// InteractiveSet provides prompt based selection
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	AccountSet,
	VerificationSet,
	InteractiveSet,
)
