package entities

// ContentDescriptor describes a content unit as published by the catalog.
// The engine never mutates descriptors; they are read-only input.
type ContentDescriptor struct {
	ID                    string   `json:"id" yaml:"id"`
	Title                 string   `json:"title" yaml:"title"`
	Tags                  []string `json:"tags" yaml:"tags"`
	DifficultyRank        int      `json:"difficultyRank" yaml:"difficultyRank"`
	DeclaredPrerequisites []string `json:"declaredPrerequisites" yaml:"declaredPrerequisites"`
}

// TagSet returns the descriptor's tags as a lookup set
func (d *ContentDescriptor) TagSet() map[string]bool {
	set := make(map[string]bool, len(d.Tags))
	for _, t := range d.Tags {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

// Status represents the learner-facing state of a content unit.
// It is never stored; it is always derived from the completion set,
// the current unit and the declared prerequisites.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCurrent   Status = "current"
	StatusAvailable Status = "available"
	StatusLocked    Status = "locked"
)

// ComputeStatus derives the status of a content unit.
// A unit with zero declared prerequisites is never locked.
func ComputeStatus(desc *ContentDescriptor, completed map[string]bool, currentID string) Status {
	if desc == nil {
		return StatusAvailable
	}
	if completed[desc.ID] {
		return StatusCompleted
	}
	if desc.ID == currentID {
		return StatusCurrent
	}
	for _, prereq := range desc.DeclaredPrerequisites {
		if !completed[prereq] {
			return StatusLocked
		}
	}
	return StatusAvailable
}
