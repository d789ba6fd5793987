//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/nftmarket/internal/adapters"
	"github.com/trebuchet-org/nftmarket/internal/config"
	"github.com/trebuchet-org/nftmarket/internal/logging"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployMarketplace,
		usecase.NewMintAndList,
		usecase.NewShowListing,
		usecase.NewBuyItem,
		usecase.NewListDeployments,
		usecase.NewSelectNetwork,

		// App
		NewApp,
	)
	return nil, nil, nil
}
