package evm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/bindings"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// Registry resolves contract handles from saved deployment records
type Registry struct {
	client    *Client
	repo      usecase.DeploymentRepository
	artifacts ArtifactSource
}

// NewRegistry creates a new registry
func NewRegistry(client *Client, repo usecase.DeploymentRepository, artifacts ArtifactSource) *Registry {
	return &Registry{
		client:    client,
		repo:      repo,
		artifacts: artifacts,
	}
}

// GetDeployedContract returns a handle to the latest saved deployment of contractName on
// the selected network
func (r *Registry) GetDeployedContract(ctx context.Context, contractName string) (usecase.ContractHandle, error) {
	network := r.client.Network()
	if network == nil {
		return nil, fmt.Errorf("%w: no network selected", domain.ErrUnknownNetwork)
	}

	deployment, err := r.repo.GetDeployment(ctx, network.Name, contractName)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", contractName, network.Name, err)
	}
	if !common.IsHexAddress(deployment.Address) {
		return nil, fmt.Errorf("%w: %q recorded for %s", domain.ErrInvalidAddress, deployment.Address, contractName)
	}

	return r.ContractAt(ctx, contractName, common.HexToAddress(deployment.Address))
}

// ContractAt returns a handle to contractName at an explicit address
func (r *Registry) ContractAt(ctx context.Context, contractName string, address common.Address) (usecase.ContractHandle, error) {
	contractABI, err := r.lookupABI(ctx, contractName)
	if err != nil {
		return nil, err
	}
	return NewContract(r.client, contractName, address, contractABI), nil
}

// lookupABI prefers the built-in bindings and falls back to compiled artifacts
func (r *Registry) lookupABI(ctx context.Context, contractName string) (abi.ABI, error) {
	if parsed, ok := bindings.Lookup(contractName); ok {
		return parsed, nil
	}
	if r.artifacts == nil {
		return abi.ABI{}, fmt.Errorf("no ABI for %s: %w", contractName, domain.ErrNotFound)
	}
	artifact, err := r.artifacts.Load(ctx, contractName)
	if err != nil {
		return abi.ABI{}, err
	}
	return artifact.ABI, nil
}

var _ usecase.ContractRegistry = (*Registry)(nil)
