package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/bindings"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
)

// DeployerAccount is the named account that signs deployments and listings
const DeployerAccount = "deployer"

// DefaultDevelopmentChains are networks that never get source verification
var DefaultDevelopmentChains = []string{"hardhat", "localhost", "anvil"}

// ShouldVerify reports whether source verification must be attempted for a deployment on
// networkName. Both conditions are required: the network is not a development chain and an
// explorer API key is available.
func ShouldVerify(networkName string, developmentChains []string, apiKey string) bool {
	return !lo.Contains(developmentChains, networkName) && apiKey != ""
}

// DeployMarketplace deploys the marketplace contract and verifies it on public networks
type DeployMarketplace struct {
	config   *config.RuntimeConfig
	accounts AccountProvider
	deployer ContractDeployer
	verifier ContractVerifier
	repo     DeploymentRepository
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployMarketplace creates a new DeployMarketplace use case
func NewDeployMarketplace(
	cfg *config.RuntimeConfig,
	accounts AccountProvider,
	deployer ContractDeployer,
	verifier ContractVerifier,
	repo DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *DeployMarketplace {
	return &DeployMarketplace{
		config:   cfg,
		accounts: accounts,
		deployer: deployer,
		verifier: verifier,
		repo:     repo,
		progress: progress,
		log:      log,
	}
}

// DeployResult contains the result of a marketplace deployment
type DeployResult struct {
	Deployment            *models.Deployment
	VerificationAttempted bool
	VerificationErr       error // non-nil when verification was attempted and failed
}

// Run executes the deployment workflow
func (uc *DeployMarketplace) Run(ctx context.Context) (*DeployResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("%w: use --network to select one", domain.ErrUnknownNetwork)
	}

	accounts, err := uc.accounts.NamedAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	deployer, ok := accounts[DeployerAccount]
	if !ok || deployer == nil {
		return nil, fmt.Errorf("%w for network %s", domain.ErrMissingDeployer, network.Name)
	}

	uc.progress.Info("========================= Deploying NFT Marketplace Contract =========================")
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %s from %s", bindings.NFTMarketplaceName, deployer.Address.Hex()),
		Spinner: true,
	})

	deployment, err := uc.deployer.Deploy(ctx, bindings.NFTMarketplaceName, DeployOptions{
		From:              deployer,
		ConstructorArgs:   []any{},
		WaitConfirmations: network.Confirmations(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s: %w", domain.ErrDeploymentFailed, bindings.NFTMarketplaceName, network.Name, err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deployed",
		Message: fmt.Sprintf("%s deployed at %s", bindings.NFTMarketplaceName, deployment.Address),
	})

	result := &DeployResult{Deployment: deployment}
	deployment.Verification.Status = models.VerificationStatusSkipped

	developmentChains := uc.config.DevelopmentChains
	if len(developmentChains) == 0 {
		developmentChains = DefaultDevelopmentChains
	}

	if ShouldVerify(network.Name, developmentChains, uc.config.EtherscanAPIKey) {
		result.VerificationAttempted = true
		result.VerificationErr = uc.verify(ctx, deployment, network)
	}

	if err := uc.repo.SaveDeployment(ctx, deployment); err != nil {
		return result, fmt.Errorf("%s deployed at %s but the record could not be saved: %w",
			bindings.NFTMarketplaceName, deployment.Address, err)
	}

	uc.progress.Info("========================= Done Deploying NFT Marketplace Contract =========================")
	return result, nil
}

// verify submits source verification. Failures are recorded on the deployment and logged;
// they never abort the workflow.
func (uc *DeployMarketplace) verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error {
	uc.progress.Info(fmt.Sprintf("Verifying %s on %s network...", deployment.ContractName, network.Name))

	if err := uc.verifier.Verify(ctx, deployment, network); err != nil {
		deployment.Verification.Status = models.VerificationStatusFailed
		deployment.Verification.Reason = err.Error()
		uc.log.Warn("contract verification failed",
			"contract", deployment.ContractName,
			"address", deployment.Address,
			"network", network.Name,
			"error", err)
		uc.progress.Error(fmt.Sprintf("Verification of %s failed: %v", deployment.ContractName, err))
		return fmt.Errorf("%w: %w", domain.ErrVerificationFailed, err)
	}

	now := time.Now()
	deployment.Verification.Status = models.VerificationStatusVerified
	deployment.Verification.VerifiedAt = &now
	uc.progress.Info(fmt.Sprintf("%s verified!", deployment.ContractName))
	return nil
}
