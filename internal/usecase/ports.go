package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
)

// AccountProvider supplies the named signer accounts (deployer, buyer, ...)
type AccountProvider interface {
	NamedAccounts(ctx context.Context) (map[string]*models.Account, error)
}

// DeployOptions mirrors the options accepted by the deployment framework
type DeployOptions struct {
	From              *models.Account
	ConstructorArgs   []any
	WaitConfirmations uint64
}

// InteractiveSelector lets the user pick one of several options and returns its index
type InteractiveSelector interface {
	SelectOption(ctx context.Context, prompt string, options []string) (int, error)
}

// ContractDeployer deploys compiled contracts and waits for their confirmation
type ContractDeployer interface {
	Deploy(ctx context.Context, contractName string, opts DeployOptions) (*models.Deployment, error)
}

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error
}

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, network string, contractName string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
}

// ContractRegistry resolves contract handles by deployment name or explicit address
type ContractRegistry interface {
	GetDeployedContract(ctx context.Context, contractName string) (ContractHandle, error)
	ContractAt(ctx context.Context, contractName string, address common.Address) (ContractHandle, error)
}

// ContractHandle exposes the state-changing and read-only operations of a deployed contract
type ContractHandle interface {
	Name() string
	Address() common.Address
	// Transact submits a state-changing call. value may be nil.
	Transact(ctx context.Context, from *models.Account, value *big.Int, method string, args ...any) (PendingTransaction, error)
	// Call performs a read-only call and returns the raw ABI-encoded output
	Call(ctx context.Context, method string, args ...any) ([]byte, error)
}

// PendingTransaction is a submitted transaction awaiting confirmation
type PendingTransaction interface {
	Hash() common.Hash
	WaitForConfirmations(ctx context.Context, confirmations uint64) (*models.Receipt, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
