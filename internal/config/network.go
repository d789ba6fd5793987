package config

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
)

const (
	localRPCURL  = "http://127.0.0.1:8545"
	localChainID = 31337
)

// builtinNetworks are resolvable without a [networks] entry
var builtinNetworks = map[string]config.NetworkConfig{
	"hardhat":   {RPCURL: localRPCURL, ChainID: localChainID},
	"localhost": {RPCURL: localRPCURL, ChainID: localChainID},
	"anvil":     {RPCURL: localRPCURL, ChainID: localChainID},
}

// NetworkResolver resolves network names against the project configuration
type NetworkResolver struct {
	project *config.ProjectConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	if project == nil {
		project = &config.ProjectConfig{}
	}
	return &NetworkResolver{project: project}
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	nc, ok := r.project.Networks[networkName]
	if !ok {
		nc, ok = builtinNetworks[networkName]
	} else if builtin, isBuiltin := builtinNetworks[networkName]; isBuiltin {
		if nc.RPCURL == "" {
			nc.RPCURL = builtin.RPCURL
		}
		if nc.ChainID == 0 {
			nc.ChainID = builtin.ChainID
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q (configured: %v)", domain.ErrUnknownNetwork, networkName, r.Names())
	}
	if nc.RPCURL == "" {
		return nil, fmt.Errorf("network %s has no rpc_url (is the environment variable set?)", networkName)
	}

	network := &config.Network{
		Name:               networkName,
		RPCURL:             nc.RPCURL,
		ChainID:            nc.ChainID,
		BlockConfirmations: nc.BlockConfirmations,
		ExplorerURL:        explorerURL(nc.ChainID),
	}
	if network.BlockConfirmations == 0 {
		network.BlockConfirmations = 1
	}
	if etherscan, exists := r.project.Etherscan[networkName]; exists && etherscan.URL != "" {
		network.VerifierURL = etherscan.URL
	}
	return network, nil
}

// Names lists every resolvable network
func (r *NetworkResolver) Names() []string {
	names := lo.Uniq(append(lo.Keys(builtinNetworks), lo.Keys(r.project.Networks)...))
	sort.Strings(names)
	return names
}

// explorerURL returns the block explorer for well-known chains
func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 56:
		return "https://bscscan.com"
	default:
		return ""
	}
}
