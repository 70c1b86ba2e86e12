package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "pathways/pkg/errors"
)

// RelationType defines the type of relationship between two content units.
// The set is closed; scoring and rendering logic match on it exhaustively.
type RelationType string

const (
	RelationPrerequisite RelationType = "prerequisite"
	RelationSequence     RelationType = "sequence"
	RelationRelated      RelationType = "related"
	RelationSimilar      RelationType = "similar"
	RelationPractice     RelationType = "practice"
	RelationDependent    RelationType = "dependent"
	RelationReference    RelationType = "reference"
	RelationExample      RelationType = "example"
)

// ParseRelationType validates a relationship type string
func ParseRelationType(s string) (RelationType, error) {
	switch RelationType(s) {
	case RelationPrerequisite, RelationSequence, RelationRelated, RelationSimilar,
		RelationPractice, RelationDependent, RelationReference, RelationExample:
		return RelationType(s), nil
	default:
		return "", pkgerrors.NewValidationError("unknown relationship type: " + s)
	}
}

// IsBlocking reports whether this relationship type participates in
// prerequisite enforcement (tree traversal and cycle detection).
func (t RelationType) IsBlocking() bool {
	return t == RelationPrerequisite || t == RelationSequence
}

// Metadata carries bookkeeping information for a relationship
type Metadata struct {
	CreatedAt   time.Time `json:"createdAt"`
	Automatic   bool      `json:"automatic"`
	Description string    `json:"description,omitempty"`
}

// Relationship is a typed, directed, weighted link between two content units.
// Owned exclusively by the graph store.
type Relationship struct {
	ID       string       `json:"id"`
	SourceID string       `json:"sourceId"`
	TargetID string       `json:"targetId"`
	Type     RelationType `json:"type"`
	Strength float64      `json:"strength"`
	Metadata Metadata     `json:"metadata"`

	// Seq preserves creation order across store implementations
	Seq uint64 `json:"seq"`
}

// NewRelationship creates a relationship with invariant validation
func NewRelationship(sourceID, targetID string, relType RelationType, strength float64, description string, automatic bool) (*Relationship, error) {
	if sourceID == "" || targetID == "" {
		return nil, pkgerrors.NewValidationError("source and target ids are required")
	}
	if sourceID == targetID {
		return nil, pkgerrors.NewValidationError("cannot link a content unit to itself")
	}
	if strength < 0 || strength > 1 {
		return nil, pkgerrors.NewValidationError("strength must be within [0,1]")
	}
	if _, err := ParseRelationType(string(relType)); err != nil {
		return nil, err
	}

	return &Relationship{
		ID:       uuid.New().String(),
		SourceID: sourceID,
		TargetID: targetID,
		Type:     relType,
		Strength: strength,
		Metadata: Metadata{
			CreatedAt:   time.Now(),
			Automatic:   automatic,
			Description: description,
		},
	}, nil
}

// RelationshipPatch holds updatable relationship fields
type RelationshipPatch struct {
	Type        *RelationType
	Strength    *float64
	Description *string
}

// Apply mutates the relationship with the patch, re-validating invariants
func (r *Relationship) Apply(patch RelationshipPatch) error {
	if patch.Type != nil {
		if _, err := ParseRelationType(string(*patch.Type)); err != nil {
			return err
		}
	}
	if patch.Strength != nil && (*patch.Strength < 0 || *patch.Strength > 1) {
		return pkgerrors.NewValidationError("strength must be within [0,1]")
	}

	if patch.Type != nil {
		r.Type = *patch.Type
	}
	if patch.Strength != nil {
		r.Strength = *patch.Strength
	}
	if patch.Description != nil {
		r.Metadata.Description = *patch.Description
	}
	return nil
}

// RenderHint carries advisory styling for a relationship type.
// These values are consumed by the visualization layer; they are not
// part of the algorithmic core.
type RenderHint struct {
	Style string `json:"style"`
	Color string `json:"color"`
}

// Hint returns the rendering hint for the relationship's type
func (r *Relationship) Hint() RenderHint {
	switch r.Type {
	case RelationPrerequisite:
		return RenderHint{Style: "solid", Color: "#d64545"}
	case RelationSequence:
		return RenderHint{Style: "solid", Color: "#e8883a"}
	case RelationRelated:
		return RenderHint{Style: "dashed", Color: "#4a90d9"}
	case RelationSimilar:
		return RenderHint{Style: "dotted", Color: "#7b61c4"}
	case RelationPractice:
		return RenderHint{Style: "dashed", Color: "#3fa860"}
	case RelationDependent:
		return RenderHint{Style: "solid", Color: "#b03a8c"}
	case RelationReference:
		return RenderHint{Style: "dotted", Color: "#8a8f98"}
	case RelationExample:
		return RenderHint{Style: "dashed", Color: "#c2a13b"}
	default:
		return RenderHint{Style: "solid", Color: "#8a8f98"}
	}
}
