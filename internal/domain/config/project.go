package config

// ProjectConfig represents the nftmarket.toml project file
type ProjectConfig struct {
	Artifacts         string                     `toml:"artifacts,omitempty"`
	Deployments       string                     `toml:"deployments,omitempty"`
	DevelopmentChains []string                   `toml:"development_chains,omitempty"`
	Accounts          map[string]string          `toml:"accounts,omitempty"`
	Networks          map[string]NetworkConfig   `toml:"networks,omitempty"`
	Etherscan         map[string]EtherscanConfig `toml:"etherscan,omitempty"`
}

// NetworkConfig is a [networks.<name>] table
type NetworkConfig struct {
	RPCURL             string `toml:"rpc_url"`
	ChainID            uint64 `toml:"chain_id,omitempty"`
	BlockConfirmations uint64 `toml:"block_confirmations,omitempty"`
}

// EtherscanConfig represents Etherscan configuration for a network
type EtherscanConfig struct {
	Key string `toml:"key,omitempty"` // API key for verification, overrides ETHERSCAN_API_KEY
	URL string `toml:"url,omitempty"` // API URL (for custom explorers)
}
