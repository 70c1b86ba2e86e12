package memory

import (
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"pathways/domain/core/entities"
	pkgerrors "pathways/pkg/errors"
)

// ContentCatalog is an in-memory content catalog. In production the
// catalog is owned by the surrounding platform; this implementation backs
// the standalone server and the test suites.
type ContentCatalog struct {
	mu          sync.RWMutex
	descriptors map[string]*entities.ContentDescriptor
	order       []string
}

// NewContentCatalog creates an empty catalog
func NewContentCatalog() *ContentCatalog {
	return &ContentCatalog{
		descriptors: make(map[string]*entities.ContentDescriptor),
	}
}

// NewContentCatalogFromFile loads descriptors from a YAML file
func NewContentCatalogFromFile(path string) (*ContentCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.NewStorageError("read content catalog", err)
	}

	var doc struct {
		Content []*entities.ContentDescriptor `yaml:"content"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.NewValidationError("content catalog is not valid YAML: " + err.Error())
	}

	catalog := NewContentCatalog()
	for _, desc := range doc.Content {
		if err := catalog.Register(desc); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Register adds or replaces a descriptor
func (c *ContentCatalog) Register(desc *entities.ContentDescriptor) error {
	if desc == nil || desc.ID == "" {
		return pkgerrors.NewValidationError("content descriptor must have an id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.descriptors[desc.ID]; !exists {
		c.order = append(c.order, desc.ID)
	}
	c.descriptors[desc.ID] = desc
	return nil
}

// Remove drops a descriptor; absent ids are a no-op
func (c *ContentCatalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.descriptors[id]; !exists {
		return
	}
	delete(c.descriptors, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Descriptor returns the descriptor for a content id
func (c *ContentCatalog) Descriptor(id string) (*entities.ContentDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	desc, exists := c.descriptors[id]
	return desc, exists
}

// All returns every descriptor in registration order
func (c *ContentCatalog) All() []*entities.ContentDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*entities.ContentDescriptor, 0, len(c.order))
	for _, id := range c.order {
		if desc, exists := c.descriptors[id]; exists {
			result = append(result, desc)
		}
	}
	return result
}

// IDs returns all catalog ids sorted lexicographically
func (c *ContentCatalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.descriptors))
	for id := range c.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
