package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
)

// ProjectFile is the project configuration file looked up from the working directory
const ProjectFile = "nftmarket.toml"

// loadEnvFiles loads .env then .env.local from the project root. Variables already set in
// the process environment are never overwritten.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// loadProjectConfig parses nftmarket.toml and expands ${VAR} references. A missing file
// yields an empty configuration.
func loadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := &config.ProjectConfig{}
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
		}
	}

	cfg.Artifacts = os.ExpandEnv(cfg.Artifacts)
	cfg.Deployments = os.ExpandEnv(cfg.Deployments)

	accounts := make(map[string]string, len(cfg.Accounts))
	for name, key := range cfg.Accounts {
		accounts[name] = os.ExpandEnv(key)
	}
	cfg.Accounts = accounts

	networks := make(map[string]config.NetworkConfig, len(cfg.Networks))
	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		networks[name] = network
	}
	cfg.Networks = networks

	etherscan := make(map[string]config.EtherscanConfig, len(cfg.Etherscan))
	for name, ec := range cfg.Etherscan {
		ec.URL = os.ExpandEnv(ec.URL)
		ec.Key = os.ExpandEnv(ec.Key)
		etherscan[name] = ec
	}
	cfg.Etherscan = etherscan

	return cfg, nil
}
