package evm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/nftmarket/internal/adapters/artifacts"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// ArtifactSource loads compiled contracts
type ArtifactSource interface {
	Load(ctx context.Context, contractName string) (*artifacts.Contract, error)
}

// Deployer deploys compiled artifacts through the client
type Deployer struct {
	client    *Client
	artifacts ArtifactSource
	log       *slog.Logger
}

// NewDeployer creates a new deployer
func NewDeployer(client *Client, artifacts ArtifactSource, log *slog.Logger) *Deployer {
	return &Deployer{
		client:    client,
		artifacts: artifacts,
		log:       log,
	}
}

// Deploy submits the creation transaction and waits for opts.WaitConfirmations blocks
func (d *Deployer) Deploy(ctx context.Context, contractName string, opts usecase.DeployOptions) (*models.Deployment, error) {
	artifact, err := d.artifacts.Load(ctx, contractName)
	if err != nil {
		return nil, err
	}
	if len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", artifact.Path)
	}

	backend, err := d.client.Backend(ctx)
	if err != nil {
		return nil, err
	}
	txOpts, err := d.client.transactor(ctx, opts.From)
	if err != nil {
		return nil, err
	}

	args := opts.ConstructorArgs
	if args == nil {
		args = []any{}
	}

	address, tx, _, err := bind.DeployContract(txOpts, artifact.ABI, artifact.Bytecode, backend, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to submit deployment: %w", err)
	}
	d.log.Debug("deployment submitted", "contract", contractName, "tx", tx.Hash().Hex(), "address", address.Hex())

	waiter, err := d.client.Waiter(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := waiter.Wait(ctx, tx.Hash(), opts.WaitConfirmations)
	if err != nil {
		return nil, err
	}
	if receipt.ContractAddress != (common.Address{}) && receipt.ContractAddress != address {
		return nil, fmt.Errorf("receipt reports contract at %s, expected %s", receipt.ContractAddress.Hex(), address.Hex())
	}

	chainID, err := d.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	network := ""
	if n := d.client.Network(); n != nil {
		network = n.Name
	}

	return &models.Deployment{
		ContractName:        contractName,
		Address:             address.Hex(),
		Network:             network,
		ChainID:             chainID.Uint64(),
		Deployer:            opts.From.Address.Hex(),
		ConstructorArgs:     args,
		TransactionHash:     tx.Hash().Hex(),
		BlockNumber:         receipt.BlockNumber,
		ConfirmationsWaited: receipt.Confirmations,
		Artifact: models.ArtifactInfo{
			SourceName:   artifact.SourceName,
			BytecodeHash: crypto.Keccak256Hash(artifact.Bytecode).Hex(),
		},
		Verification: models.VerificationInfo{Status: models.VerificationStatusUnverified},
		CreatedAt:    time.Now(),
	}, nil
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
