package services

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"pathways/application/ports"
	domainconfig "pathways/domain/config"
	"pathways/domain/core/entities"
	pkgerrors "pathways/pkg/errors"
	"pathways/pkg/observability"
	"pathways/pkg/utils"
)

// CreateLinkInput carries the fields for a new relationship
type CreateLinkInput struct {
	SourceID    string  `json:"sourceId" validate:"required"`
	TargetID    string  `json:"targetId" validate:"required,nefield=SourceID"`
	Type        string  `json:"type" validate:"required"`
	Strength    float64 `json:"strength" validate:"gte=0,lte=1"`
	Description string  `json:"description"`
	Automatic   bool    `json:"automatic"`
}

// UpdateLinkInput carries the patchable fields of a relationship
type UpdateLinkInput struct {
	Type        *string  `json:"type,omitempty"`
	Strength    *float64 `json:"strength,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// LinkService owns the canonical relationship set. It is the only engine
// component with mutable state; everything downstream is recomputed from
// its current snapshot.
type LinkService struct {
	store     ports.RelationshipStore
	catalog   ports.ContentCatalog
	domainCfg *domainconfig.DomainConfig
	logger    *zap.Logger
	metrics   *observability.Metrics

	// version counts mutations so derived computations can key explicit
	// memoization on it
	version atomic.Uint64
}

// NewLinkService creates a new link service
func NewLinkService(
	store ports.RelationshipStore,
	catalog ports.ContentCatalog,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *LinkService {
	if domainCfg == nil {
		domainCfg = domainconfig.DefaultDomainConfig()
	}
	return &LinkService{
		store:     store,
		catalog:   catalog,
		domainCfg: domainCfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// Version returns the mutation counter. It increases on every successful
// create, update or delete.
func (s *LinkService) Version() uint64 {
	return s.version.Load()
}

// CreateLink validates and persists a new relationship
func (s *LinkService) CreateLink(ctx context.Context, input CreateLinkInput) (*entities.Relationship, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	relType, err := entities.ParseRelationType(input.Type)
	if err != nil {
		return nil, err
	}

	if _, ok := s.catalog.Descriptor(input.SourceID); !ok {
		return nil, pkgerrors.NewValidationError("source content is unknown to the catalog: " + input.SourceID)
	}
	if _, ok := s.catalog.Descriptor(input.TargetID); !ok {
		return nil, pkgerrors.NewValidationError("target content is unknown to the catalog: " + input.TargetID)
	}

	outgoing, err := s.store.ListBySource(ctx, input.SourceID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create link")
	}
	if len(outgoing) >= s.domainCfg.MaxLinksPerNode {
		return nil, pkgerrors.NewValidationError("node has reached the maximum number of outgoing links: " + input.SourceID)
	}
	if !s.domainCfg.AllowDuplicateLinks {
		for _, existing := range outgoing {
			if existing.TargetID == input.TargetID && existing.Type == relType {
				return nil, pkgerrors.NewValidationError("an identical link already exists between these nodes")
			}
		}
	}

	rel, err := entities.NewRelationship(
		input.SourceID,
		input.TargetID,
		relType,
		input.Strength,
		input.Description,
		input.Automatic,
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, rel); err != nil {
		return nil, pkgerrors.Wrap(err, "create link")
	}

	s.version.Add(1)
	s.metrics.CountMutation("create")
	s.logger.Debug("Link created",
		zap.String("linkID", rel.ID),
		zap.String("source", rel.SourceID),
		zap.String("target", rel.TargetID),
		zap.String("type", string(rel.Type)),
		zap.Bool("automatic", rel.Metadata.Automatic),
	)

	return rel, nil
}

// UpdateLink applies a patch to an existing relationship.
// Returns NOT_FOUND when the id is absent.
func (s *LinkService) UpdateLink(ctx context.Context, id string, input UpdateLinkInput) (*entities.Relationship, error) {
	rel, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := entities.RelationshipPatch{
		Strength:    input.Strength,
		Description: input.Description,
	}
	if input.Type != nil {
		relType, err := entities.ParseRelationType(*input.Type)
		if err != nil {
			return nil, err
		}
		patch.Type = &relType
	}

	if err := rel.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, rel); err != nil {
		return nil, pkgerrors.Wrap(err, "update link")
	}

	s.version.Add(1)
	s.metrics.CountMutation("update")
	s.logger.Debug("Link updated", zap.String("linkID", id))

	return rel, nil
}

// DeleteLink removes a relationship. Deleting an id that is already absent
// is a deliberate no-op, not an error.
func (s *LinkService) DeleteLink(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "delete link")
	}

	s.version.Add(1)
	s.metrics.CountMutation("delete")
	s.logger.Debug("Link deleted", zap.String("linkID", id))

	return nil
}

// GetLink returns a relationship by id, or NOT_FOUND
func (s *LinkService) GetLink(ctx context.Context, id string) (*entities.Relationship, error) {
	return s.store.Get(ctx, id)
}

// GetOutgoingLinks returns all relationships with the node as source, in
// creation order. Unknown node ids yield an empty list.
func (s *LinkService) GetOutgoingLinks(ctx context.Context, nodeID string) ([]*entities.Relationship, error) {
	links, err := s.store.ListBySource(ctx, nodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list outgoing links")
	}
	return links, nil
}

// GetIncomingLinks returns all relationships with the node as target, in
// creation order. Unknown node ids yield an empty list.
func (s *LinkService) GetIncomingLinks(ctx context.Context, nodeID string) ([]*entities.Relationship, error) {
	links, err := s.store.ListByTarget(ctx, nodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list incoming links")
	}
	return links, nil
}

// AllLinks returns the full relationship set in creation order
func (s *LinkService) AllLinks(ctx context.Context) ([]*entities.Relationship, error) {
	links, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list links")
	}
	return links, nil
}
