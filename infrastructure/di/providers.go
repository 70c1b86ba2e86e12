package di

import (
	"fmt"

	"go.uber.org/zap"

	"pathways/application/ports"
	"pathways/application/services"
	domainconfig "pathways/domain/config"
	"pathways/infrastructure/config"
	"pathways/infrastructure/persistence/badgerstore"
	"pathways/infrastructure/persistence/memory"
	"pathways/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideMetrics creates the engine metrics
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics()
}

// ProvideTuning loads the tuning file, falling back to defaults when no
// file is configured
func ProvideTuning(cfg *config.Config, logger *zap.Logger) (*config.Tuning, error) {
	if cfg.TuningFile == "" {
		return config.NewTuning(domainconfig.DefaultEngineSettings()), nil
	}

	settings, err := config.LoadEngineSettings(cfg.TuningFile)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}

	logger.Info("Tuning settings loaded", zap.String("path", cfg.TuningFile))
	return config.NewTuning(settings), nil
}

// ProvideSettingsSource exposes the tuning holder as a settings source
func ProvideSettingsSource(tuning *config.Tuning) domainconfig.SettingsSource {
	return tuning
}

// ProvideDomainConfig creates the domain limits configuration
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideRelationshipStore creates the configured store backend. The
// cleanup function closes the badger database on shutdown.
func ProvideRelationshipStore(cfg *config.Config, logger *zap.Logger) (ports.RelationshipStore, func(), error) {
	switch cfg.StoreBackend {
	case "badger":
		store, err := badgerstore.Open(cfg.BadgerPath, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close badger store", zap.Error(err))
			}
		}
		return store, cleanup, nil
	default:
		return memory.NewRelationshipStore(), func() {}, nil
	}
}

// ProvideContentCatalog loads the catalog file, or creates an empty catalog
func ProvideContentCatalog(cfg *config.Config, logger *zap.Logger) (ports.ContentCatalog, error) {
	if cfg.ContentFile == "" {
		logger.Warn("No content file configured, starting with an empty catalog")
		return memory.NewContentCatalog(), nil
	}

	catalog, err := memory.NewContentCatalogFromFile(cfg.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("load content catalog: %w", err)
	}

	logger.Info("Content catalog loaded",
		zap.String("path", cfg.ContentFile),
		zap.Int("descriptors", len(catalog.All())),
	)
	return catalog, nil
}

// ProvideLinkService creates the link service
func ProvideLinkService(
	store ports.RelationshipStore,
	catalog ports.ContentCatalog,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *services.LinkService {
	return services.NewLinkService(store, catalog, domainCfg, logger, metrics)
}

// ProvideDependencyService creates the dependency analyzer
func ProvideDependencyService(
	links *services.LinkService,
	catalog ports.ContentCatalog,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *services.DependencyService {
	return services.NewDependencyService(links, catalog, logger, metrics)
}

// ProvideRecommendationService creates the recommendation engine
func ProvideRecommendationService(
	links *services.LinkService,
	catalog ports.ContentCatalog,
	settings domainconfig.SettingsSource,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *services.RecommendationService {
	return services.NewRecommendationService(links, catalog, settings, domainCfg, logger, metrics)
}

// ProvideLayoutService creates the layout engine
func ProvideLayoutService(
	settings domainconfig.SettingsSource,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *services.LayoutService {
	return services.NewLayoutService(settings, logger, metrics)
}
