package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	ArtifactsDir   string
	DeploymentsDir string

	// Context settings
	Network           *Network // nil if not specified
	AvailableNetworks []string // every resolvable network name, sorted
	DevelopmentChains []string
	Accounts          map[string]string // account name -> hex private key (already env-expanded)

	// Verification settings
	EtherscanAPIKey string

	// Execution settings
	Debug               bool
	NonInteractive      bool
	Timeout             time.Duration
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration

	// Resolved configurations
	ProjectConfig *ProjectConfig
}

// Network represents network configuration
type Network struct {
	Name               string `json:"name" yaml:"name"`
	RPCURL             string `json:"rpcUrl" yaml:"rpc_url"`
	ChainID            uint64 `json:"chainId" yaml:"chain_id"`
	BlockConfirmations uint64 `json:"blockConfirmations" yaml:"block_confirmations"`
	ExplorerURL        string `json:"explorerUrl,omitempty" yaml:"explorer_url,omitempty"`
	VerifierURL        string `json:"verifierUrl,omitempty" yaml:"verifier_url,omitempty"`
}

// Confirmations returns the configured confirmation count, defaulting to 1
func (n *Network) Confirmations() uint64 {
	if n == nil || n.BlockConfirmations == 0 {
		return 1
	}
	return n.BlockConfirmations
}
