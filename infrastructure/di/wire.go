//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"pathways/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideTuning,
	ProvideSettingsSource,
	ProvideDomainConfig,
	ProvideRelationshipStore,
	ProvideContentCatalog,
	ProvideLinkService,
	ProvideDependencyService,
	ProvideRecommendationService,
	ProvideLayoutService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
