package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
)

// EnvPrefix prefixes environment variables that override configuration keys
const EnvPrefix = "NFTM"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := loadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:         projectRoot,
		ArtifactsDir:        firstNonEmpty(v.GetString("artifacts"), project.Artifacts, "artifacts"),
		DeploymentsDir:      firstNonEmpty(v.GetString("deployments"), project.Deployments, "deployments"),
		DevelopmentChains:   project.DevelopmentChains,
		Accounts:            project.Accounts,
		Debug:               v.GetBool("debug"),
		NonInteractive:      v.GetBool("non_interactive"),
		Timeout:             v.GetDuration("timeout"),
		ConfirmationTimeout: v.GetDuration("confirmation_timeout"),
		PollInterval:        v.GetDuration("poll_interval"),
		ProjectConfig:       project,
	}
	if len(cfg.DevelopmentChains) == 0 {
		cfg.DevelopmentChains = v.GetStringSlice("development_chains")
	}

	// hardhat.config style fallback: a bare PRIVATE_KEY signs as the deployer
	if _, ok := cfg.Accounts["deployer"]; !ok {
		if key := os.Getenv("PRIVATE_KEY"); key != "" {
			cfg.Accounts["deployer"] = key
		}
	}

	cfg.EtherscanAPIKey = v.GetString("etherscan_api_key")

	resolver := NewNetworkResolver(project)
	cfg.AvailableNetworks = resolver.Names()

	if networkName := v.GetString("network"); networkName != "" {
		network, err := resolver.Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network

		if etherscan, ok := project.Etherscan[networkName]; ok && etherscan.Key != "" {
			cfg.EtherscanAPIKey = etherscan.Key
		}
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to the first directory holding a
// project marker. The working directory is used when none is found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRoot(cwd), nil
}

var projectMarkers = []string{ProjectFile, "hardhat.config.js", "hardhat.config.ts", "foundry.toml"}

func findProjectRoot(start string) string {
	dir := start
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	_ = v.BindEnv("etherscan_api_key", "ETHERSCAN_API_KEY", EnvPrefix+"_ETHERSCAN_API_KEY")

	v.SetDefault("timeout", "5m")
	v.SetDefault("confirmation_timeout", "3m")
	v.SetDefault("poll_interval", "2s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("development_chains", []string{"hardhat", "localhost", "anvil"})
	if projectRoot != "" {
		v.SetDefault("project_root", projectRoot)
	}

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
