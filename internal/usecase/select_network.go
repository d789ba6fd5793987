package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
)

// SelectNetwork picks the network for commands run without --network
type SelectNetwork struct {
	config   *config.RuntimeConfig
	selector InteractiveSelector
}

// NewSelectNetwork creates a new SelectNetwork use case
func NewSelectNetwork(cfg *config.RuntimeConfig, selector InteractiveSelector) *SelectNetwork {
	return &SelectNetwork{
		config:   cfg,
		selector: selector,
	}
}

// Run returns the selected network name. The configured network wins; otherwise the user
// is asked to pick one of the resolvable networks.
func (uc *SelectNetwork) Run(ctx context.Context) (string, error) {
	if uc.config.Network != nil {
		return uc.config.Network.Name, nil
	}

	names := uc.config.AvailableNetworks
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no networks configured", domain.ErrUnknownNetwork)
	}
	if uc.config.NonInteractive || uc.selector == nil {
		return "", fmt.Errorf("%w: use --network to select one (available: %s)",
			domain.ErrUnknownNetwork, strings.Join(names, ", "))
	}

	index, err := uc.selector.SelectOption(ctx, "Select network", names)
	if err != nil {
		return "", fmt.Errorf("failed to select network: %w", err)
	}
	return names[index], nil
}
