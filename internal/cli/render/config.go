package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// configView is the printable subset of the runtime configuration. Secrets never appear.
type configView struct {
	ProjectRoot         string          `yaml:"project_root"`
	Artifacts           string          `yaml:"artifacts"`
	Deployments         string          `yaml:"deployments"`
	Network             *config.Network `yaml:"network,omitempty"`
	DevelopmentChains   []string        `yaml:"development_chains"`
	Accounts            []string        `yaml:"accounts"`
	EtherscanAPIKey     string          `yaml:"etherscan_api_key"`
	Verify              bool            `yaml:"verify"`
	Timeout             string          `yaml:"timeout"`
	ConfirmationTimeout string          `yaml:"confirmation_timeout"`
	PollInterval        string          `yaml:"poll_interval"`
}

// ConfigRenderer renders the resolved configuration as YAML
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// RenderConfig writes cfg as YAML. verify reports whether deployments on the selected
// network would be verified.
func (r *ConfigRenderer) RenderConfig(cfg *config.RuntimeConfig, verify bool) error {
	accounts := lo.Keys(lo.PickBy(cfg.Accounts, func(_ string, key string) bool { return key != "" }))
	sort.Strings(accounts)

	view := configView{
		ProjectRoot:         cfg.ProjectRoot,
		Artifacts:           cfg.ArtifactsDir,
		Deployments:         cfg.DeploymentsDir,
		Network:             cfg.Network,
		DevelopmentChains:   cfg.DevelopmentChains,
		Accounts:            accounts,
		EtherscanAPIKey:     "(not set)",
		Verify:              verify,
		Timeout:             cfg.Timeout.String(),
		ConfirmationTimeout: cfg.ConfirmationTimeout.String(),
		PollInterval:        cfg.PollInterval.String(),
	}
	if cfg.EtherscanAPIKey != "" {
		view.EtherscanAPIKey = "(set)"
	}

	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
