package app

import (
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployMarketplace *usecase.DeployMarketplace
	MintAndList       *usecase.MintAndList
	ShowListing       *usecase.ShowListing
	BuyItem           *usecase.BuyItem
	ListDeployments   *usecase.ListDeployments
	SelectNetwork     *usecase.SelectNetwork
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployMarketplace *usecase.DeployMarketplace,
	mintAndList *usecase.MintAndList,
	showListing *usecase.ShowListing,
	buyItem *usecase.BuyItem,
	listDeployments *usecase.ListDeployments,
	selectNetwork *usecase.SelectNetwork,
) (*App, error) {
	return &App{
		Config:            cfg,
		DeployMarketplace: deployMarketplace,
		MintAndList:       mintAndList,
		ShowListing:       showListing,
		BuyItem:           buyItem,
		ListDeployments:   listDeployments,
		SelectNetwork:     selectNetwork,
	}, nil
}
