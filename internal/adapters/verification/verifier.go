package verification

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/nftmarket/internal/domain/bindings"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// CommandRunner runs an external command in dir and returns its combined output
type CommandRunner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// ForgeVerifier submits source verification to an Etherscan compatible explorer through
// `forge verify-contract`
type ForgeVerifier struct {
	projectRoot string
	apiKey      string
	run         CommandRunner
}

// NewForgeVerifier creates a new verifier
func NewForgeVerifier(cfg *config.RuntimeConfig) *ForgeVerifier {
	return &ForgeVerifier{
		projectRoot: cfg.ProjectRoot,
		apiKey:      cfg.EtherscanAPIKey,
		run:         execRunner,
	}
}

// WithRunner replaces the command runner
func (v *ForgeVerifier) WithRunner(run CommandRunner) *ForgeVerifier {
	v.run = run
	return v
}

// Verify performs contract verification and records the explorer URL on success
func (v *ForgeVerifier) Verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error {
	args, err := v.buildVerifyArgs(deployment, network)
	if err != nil {
		return err
	}

	output, err := v.run(ctx, v.projectRoot, "forge", args...)
	if err := interpretOutput(string(output), err); err != nil {
		return err
	}

	deployment.Verification.URL = explorerURL(network, deployment.Address)
	return nil
}

// DumpVerifyCommand returns the forge command that would be run, with the API key redacted
func (v *ForgeVerifier) DumpVerifyCommand(deployment *models.Deployment, network *config.Network) (string, error) {
	args, err := v.buildVerifyArgs(deployment, network)
	if err != nil {
		return "", err
	}
	for i := range args {
		if i > 0 && args[i-1] == "--etherscan-api-key" {
			args[i] = "***"
		}
	}
	return "forge " + strings.Join(args, " "), nil
}

func (v *ForgeVerifier) buildVerifyArgs(deployment *models.Deployment, network *config.Network) ([]string, error) {
	args := []string{
		"verify-contract",
		deployment.Address,
		deployment.ContractPath(),
		"--chain-id", fmt.Sprintf("%d", network.ChainID),
		"--watch",
	}

	if network.VerifierURL != "" {
		args = append(args, "--verifier-url", network.VerifierURL)
	}
	if v.apiKey != "" {
		args = append(args, "--etherscan-api-key", v.apiKey)
	}

	encoded, err := encodeConstructorArgs(deployment)
	if err != nil {
		return nil, err
	}
	if encoded != "" {
		args = append(args, "--constructor-args", encoded)
	}

	return args, nil
}

// encodeConstructorArgs ABI encodes the recorded constructor arguments without the 0x prefix
func encodeConstructorArgs(deployment *models.Deployment) (string, error) {
	if len(deployment.ConstructorArgs) == 0 {
		return "", nil
	}
	contractABI, ok := bindings.Lookup(deployment.ContractName)
	if !ok {
		return "", fmt.Errorf("no ABI known for %s constructor arguments", deployment.ContractName)
	}
	packed, err := contractABI.Pack("", deployment.ConstructorArgs...)
	if err != nil {
		return "", fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return strings.TrimPrefix(hexutil.Encode(packed), "0x"), nil
}

func isAlreadyVerified(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already verified")
}

func interpretOutput(output string, runErr error) error {
	output = strings.TrimSpace(output)
	if isAlreadyVerified(output) {
		return nil
	}
	if runErr != nil {
		if output == "" {
			return fmt.Errorf("forge verify-contract: %w", runErr)
		}
		return fmt.Errorf("forge verify-contract: %s", output)
	}
	if strings.Contains(output, "Contract successfully verified") || strings.Contains(output, "Pass - Verified") {
		return nil
	}
	return fmt.Errorf("verification status unclear: %s", output)
}

func explorerURL(network *config.Network, address string) string {
	if network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(network.ExplorerURL, "/"), address)
}

var _ usecase.ContractVerifier = (*ForgeVerifier)(nil)
