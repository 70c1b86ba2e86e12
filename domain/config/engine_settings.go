package config

// EngineSettings holds the tunable parameters of the scoring and layout
// algorithms. Loaded from the tuning file and hot-reloadable at runtime.
type EngineSettings struct {
	Scoring ScoringSettings `yaml:"scoring"`
	Layout  LayoutSettings  `yaml:"layout"`
}

// ScoringSettings weights the recommendation signals
type ScoringSettings struct {
	TagWeight        float64 `yaml:"tagWeight" validate:"gte=0,lte=1"`
	DifficultyWeight float64 `yaml:"difficultyWeight" validate:"gte=0,lte=1"`
	SequenceBonus    float64 `yaml:"sequenceBonus" validate:"gte=0,lte=1"`
}

// LayoutSettings parameterizes the force simulation
type LayoutSettings struct {
	Repulsion         float64 `yaml:"repulsion" validate:"gt=0"`
	Attraction        float64 `yaml:"attraction" validate:"gt=0"`
	Damping           float64 `yaml:"damping" validate:"gt=0,lt=1"`
	NodeRadius        float64 `yaml:"nodeRadius" validate:"gt=0"`
	BatchSize         int     `yaml:"batchSize" validate:"gt=0"`
	DefaultIterations int     `yaml:"defaultIterations" validate:"gt=0"`
}

// DefaultEngineSettings returns balanced defaults
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Scoring: ScoringSettings{
			TagWeight:        0.5,
			DifficultyWeight: 0.3,
			SequenceBonus:    0.4,
		},
		Layout: LayoutSettings{
			Repulsion:         8000,
			Attraction:        0.05,
			Damping:           0.85,
			NodeRadius:        30,
			BatchSize:         10,
			DefaultIterations: 100,
		},
	}
}

// SettingsSource provides the current engine settings. Implementations may
// swap settings at runtime; callers read a fresh snapshot per computation.
type SettingsSource interface {
	Current() EngineSettings
}

// StaticSettings is a SettingsSource with fixed values
type StaticSettings struct {
	settings EngineSettings
}

// NewStaticSettings wraps fixed settings as a SettingsSource
func NewStaticSettings(s EngineSettings) *StaticSettings {
	return &StaticSettings{settings: s}
}

// Current returns the wrapped settings
func (s *StaticSettings) Current() EngineSettings {
	return s.settings
}
