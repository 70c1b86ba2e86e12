package config

// DomainConfig holds configurable business rules for the relationship graph
type DomainConfig struct {
	// Graph constraints
	MaxLinksPerNode     int
	AllowDuplicateLinks bool

	// Traversal limits
	DefaultTreeDepth int
	MaxTreeDepth     int

	// Recommendation limits
	DefaultTopN int
	MaxTopN     int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxLinksPerNode:     50,
		AllowDuplicateLinks: false,

		DefaultTreeDepth: 3,
		MaxTreeDepth:     10,

		DefaultTopN: 5,
		MaxTopN:     25,
	}
}
