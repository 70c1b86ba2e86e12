package memory

import (
	"context"
	"sort"
	"sync"

	"pathways/domain/core/entities"
	pkgerrors "pathways/pkg/errors"
)

// RelationshipStore is the in-memory relationship store. It is the default
// backend and the one the test suites run against.
type RelationshipStore struct {
	mu       sync.RWMutex
	links    map[string]*entities.Relationship
	bySource map[string]map[string]struct{}
	byTarget map[string]map[string]struct{}
	nextSeq  uint64
}

// NewRelationshipStore creates an empty in-memory relationship store
func NewRelationshipStore() *RelationshipStore {
	return &RelationshipStore{
		links:    make(map[string]*entities.Relationship),
		bySource: make(map[string]map[string]struct{}),
		byTarget: make(map[string]map[string]struct{}),
	}
}

// Get retrieves a relationship by id
func (s *RelationshipStore) Get(ctx context.Context, id string) (*entities.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rel, exists := s.links[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("link " + id)
	}
	return copyRelationship(rel), nil
}

// Put inserts or replaces a relationship. First inserts get the next
// sequence number; replacements keep the original one.
func (s *RelationshipStore) Put(ctx context.Context, rel *entities.Relationship) error {
	if rel == nil || rel.ID == "" {
		return pkgerrors.NewValidationError("relationship must have an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.links[rel.ID]; exists {
		rel.Seq = existing.Seq
		s.unindexLocked(existing)
	} else {
		s.nextSeq++
		rel.Seq = s.nextSeq
	}

	stored := copyRelationship(rel)
	s.links[stored.ID] = stored
	s.indexLocked(stored)
	return nil
}

// Delete removes a relationship. Absent ids are a no-op.
func (s *RelationshipStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, exists := s.links[id]
	if !exists {
		return nil
	}

	s.unindexLocked(rel)
	delete(s.links, id)
	return nil
}

// ListBySource returns relationships with the node as source, in creation order
func (s *RelationshipStore) ListBySource(ctx context.Context, nodeID string) ([]*entities.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(s.bySource[nodeID]), nil
}

// ListByTarget returns relationships with the node as target, in creation order
func (s *RelationshipStore) ListByTarget(ctx context.Context, nodeID string) ([]*entities.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(s.byTarget[nodeID]), nil
}

// List returns all relationships in creation order
func (s *RelationshipStore) List(ctx context.Context) ([]*entities.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.Relationship, 0, len(s.links))
	for _, rel := range s.links {
		result = append(result, copyRelationship(rel))
	}
	sortBySeq(result)
	return result, nil
}

func (s *RelationshipStore) indexLocked(rel *entities.Relationship) {
	if s.bySource[rel.SourceID] == nil {
		s.bySource[rel.SourceID] = make(map[string]struct{})
	}
	s.bySource[rel.SourceID][rel.ID] = struct{}{}

	if s.byTarget[rel.TargetID] == nil {
		s.byTarget[rel.TargetID] = make(map[string]struct{})
	}
	s.byTarget[rel.TargetID][rel.ID] = struct{}{}
}

func (s *RelationshipStore) unindexLocked(rel *entities.Relationship) {
	if ids := s.bySource[rel.SourceID]; ids != nil {
		delete(ids, rel.ID)
		if len(ids) == 0 {
			delete(s.bySource, rel.SourceID)
		}
	}
	if ids := s.byTarget[rel.TargetID]; ids != nil {
		delete(ids, rel.ID)
		if len(ids) == 0 {
			delete(s.byTarget, rel.TargetID)
		}
	}
}

func (s *RelationshipStore) collectLocked(ids map[string]struct{}) []*entities.Relationship {
	result := make([]*entities.Relationship, 0, len(ids))
	for id := range ids {
		if rel, exists := s.links[id]; exists {
			result = append(result, copyRelationship(rel))
		}
	}
	sortBySeq(result)
	return result
}

func sortBySeq(rels []*entities.Relationship) {
	sort.Slice(rels, func(i, j int) bool { return rels[i].Seq < rels[j].Seq })
}

// copyRelationship shields the store's records from caller mutation
func copyRelationship(rel *entities.Relationship) *entities.Relationship {
	clone := *rel
	return &clone
}
