package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/bindings"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/logging"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

func TestShouldVerify(t *testing.T) {
	tests := []struct {
		name    string
		network string
		apiKey  string
		want    bool
	}{
		{name: "public network with key", network: "sepolia", apiKey: "KEY", want: true},
		{name: "public network without key", network: "sepolia", apiKey: "", want: false},
		{name: "development chain with key", network: "hardhat", apiKey: "KEY", want: false},
		{name: "development chain without key", network: "localhost", apiKey: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.ShouldVerify(tt.network, usecase.DefaultDevelopmentChains, tt.apiKey)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("configured development chains", func(t *testing.T) {
		assert.False(t, usecase.ShouldVerify("staging", []string{"staging"}, "KEY"))
		assert.True(t, usecase.ShouldVerify("hardhat", []string{"staging"}, "KEY"))
	})
}

type deployFixture struct {
	cfg      *config.RuntimeConfig
	accounts *MockAccountProvider
	deployer *MockContractDeployer
	verifier *MockContractVerifier
	repo     *MockDeploymentRepository
	sink     *MockProgressSink
	uc       *usecase.DeployMarketplace
	owner    *models.Account
}

func newDeployFixture(network, apiKey string) *deployFixture {
	f := &deployFixture{
		cfg: &config.RuntimeConfig{
			Network:         &config.Network{Name: network, ChainID: 11155111, BlockConfirmations: 6},
			EtherscanAPIKey: apiKey,
		},
		accounts: new(MockAccountProvider),
		deployer: new(MockContractDeployer),
		verifier: new(MockContractVerifier),
		repo:     new(MockDeploymentRepository),
		sink:     new(MockProgressSink),
		owner:    newAccount(usecase.DeployerAccount),
	}
	f.uc = usecase.NewDeployMarketplace(f.cfg, f.accounts, f.deployer, f.verifier, f.repo, f.sink, logging.NewNop())
	return f
}

func (f *deployFixture) expectDeploy(network string) *models.Deployment {
	deployment := &models.Deployment{
		ContractName: bindings.NFTMarketplaceName,
		Address:      "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		Network:      network,
		Deployer:     f.owner.Address.Hex(),
	}
	f.accounts.On("NamedAccounts", mock.Anything).
		Return(map[string]*models.Account{usecase.DeployerAccount: f.owner}, nil)
	f.deployer.On("Deploy", mock.Anything, bindings.NFTMarketplaceName, mock.MatchedBy(func(opts usecase.DeployOptions) bool {
		return opts.From == f.owner && len(opts.ConstructorArgs) == 0 && opts.WaitConfirmations == 6
	})).Return(deployment, nil)
	f.repo.On("SaveDeployment", mock.Anything, deployment).Return(nil)
	return deployment
}

func TestDeployMarketplace(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		network    string
		apiKey     string
		verifyErr  error
		wantVerify bool
		wantStatus models.VerificationStatus
	}{
		{name: "public network with key verifies", network: "sepolia", apiKey: "KEY", wantVerify: true, wantStatus: models.VerificationStatusVerified},
		{name: "public network without key skips", network: "sepolia", wantStatus: models.VerificationStatusSkipped},
		{name: "development chain with key skips", network: "hardhat", apiKey: "KEY", wantStatus: models.VerificationStatusSkipped},
		{name: "development chain without key skips", network: "localhost", wantStatus: models.VerificationStatusSkipped},
		{
			name:       "verification failure does not abort",
			network:    "sepolia",
			apiKey:     "KEY",
			verifyErr:  errors.New("etherscan unavailable"),
			wantVerify: true,
			wantStatus: models.VerificationStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDeployFixture(tt.network, tt.apiKey)
			deployment := f.expectDeploy(tt.network)
			if tt.wantVerify {
				f.verifier.On("Verify", mock.Anything, deployment, f.cfg.Network).Return(tt.verifyErr)
			}

			result, err := f.uc.Run(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.wantVerify, result.VerificationAttempted)
			assert.Equal(t, tt.wantStatus, result.Deployment.Verification.Status)
			assert.True(t, common.IsHexAddress(result.Deployment.Address))
			if tt.verifyErr != nil {
				assert.ErrorIs(t, result.VerificationErr, domain.ErrVerificationFailed)
				assert.Contains(t, result.Deployment.Verification.Reason, "etherscan unavailable")
				assert.NotEmpty(t, f.sink.errors)
			} else {
				assert.NoError(t, result.VerificationErr)
			}
			if !tt.wantVerify {
				f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
			}

			f.deployer.AssertExpectations(t)
			f.verifier.AssertExpectations(t)
			f.repo.AssertExpectations(t)
		})
	}
}

func TestDeployMarketplace_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("deployment failure is fatal", func(t *testing.T) {
		f := newDeployFixture("sepolia", "KEY")
		f.accounts.On("NamedAccounts", mock.Anything).
			Return(map[string]*models.Account{usecase.DeployerAccount: f.owner}, nil)
		f.deployer.On("Deploy", mock.Anything, bindings.NFTMarketplaceName, mock.Anything).
			Return(nil, errors.New("insufficient funds"))

		result, err := f.uc.Run(ctx)
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.Contains(t, err.Error(), "insufficient funds")
		assert.Nil(t, result)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("missing deployer account", func(t *testing.T) {
		f := newDeployFixture("sepolia", "KEY")
		f.accounts.On("NamedAccounts", mock.Anything).Return(map[string]*models.Account{}, nil)

		_, err := f.uc.Run(ctx)
		assert.ErrorIs(t, err, domain.ErrMissingDeployer)
		f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no network selected", func(t *testing.T) {
		f := newDeployFixture("sepolia", "KEY")
		f.cfg.Network = nil

		_, err := f.uc.Run(ctx)
		assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
	})

	t.Run("save failure is reported", func(t *testing.T) {
		f := newDeployFixture("hardhat", "")
		f.accounts.On("NamedAccounts", mock.Anything).
			Return(map[string]*models.Account{usecase.DeployerAccount: f.owner}, nil)
		deployment := &models.Deployment{ContractName: bindings.NFTMarketplaceName, Address: "0x0000000000000000000000000000000000000001"}
		f.deployer.On("Deploy", mock.Anything, bindings.NFTMarketplaceName, mock.Anything).Return(deployment, nil)
		f.repo.On("SaveDeployment", mock.Anything, deployment).Return(errors.New("disk full"))

		result, err := f.uc.Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		require.NotNil(t, result)
		assert.Equal(t, deployment, result.Deployment)
	})
}
