package ports

import (
	"context"

	"pathways/domain/core/entities"
)

// RelationshipStore is the injected key-value store owning relationship
// records. Implementations must preserve creation order in listings
// (ascending Seq). Failures surface as STORAGE errors and are propagated,
// not retried.
type RelationshipStore interface {
	// Get returns the relationship or a NOT_FOUND error
	Get(ctx context.Context, id string) (*entities.Relationship, error)

	// Put inserts or replaces a relationship. The store assigns Seq on
	// first insert.
	Put(ctx context.Context, rel *entities.Relationship) error

	// Delete removes a relationship. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// ListBySource returns relationships with the node as source, in
	// creation order.
	ListBySource(ctx context.Context, nodeID string) ([]*entities.Relationship, error)

	// ListByTarget returns relationships with the node as target, in
	// creation order.
	ListByTarget(ctx context.Context, nodeID string) ([]*entities.Relationship, error)

	// List returns all relationships in creation order.
	List(ctx context.Context) ([]*entities.Relationship, error)
}

// ContentCatalog exposes the read-only content descriptors the engine
// reasons about. Owned by the surrounding platform.
type ContentCatalog interface {
	// Descriptor returns the descriptor for a content id, or false when
	// the id is unknown to the catalog.
	Descriptor(id string) (*entities.ContentDescriptor, bool)

	// All returns every descriptor currently in the catalog.
	All() []*entities.ContentDescriptor
}
