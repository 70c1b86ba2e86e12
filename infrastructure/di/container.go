package di

import (
	"go.uber.org/zap"

	"pathways/application/ports"
	"pathways/application/services"
	domainconfig "pathways/domain/config"
	"pathways/infrastructure/config"
	"pathways/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Tuning          *config.Tuning
	DomainCfg       *domainconfig.DomainConfig
	Store           ports.RelationshipStore
	Catalog         ports.ContentCatalog
	Links           *services.LinkService
	Dependencies    *services.DependencyService
	Recommendations *services.RecommendationService
	Layout          *services.LayoutService
	Metrics         *observability.Metrics
}
