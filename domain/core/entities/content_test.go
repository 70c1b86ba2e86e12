package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatus(t *testing.T) {
	intro := &ContentDescriptor{ID: "intro", Title: "Intro"}
	loops := &ContentDescriptor{ID: "loops", Title: "Loops", DeclaredPrerequisites: []string{"intro"}}
	funcs := &ContentDescriptor{ID: "funcs", Title: "Functions", DeclaredPrerequisites: []string{"intro", "loops"}}

	tests := []struct {
		name      string
		desc      *ContentDescriptor
		completed map[string]bool
		currentID string
		want      Status
	}{
		{"no prerequisites is available", intro, nil, "", StatusAvailable},
		{"completed wins", intro, map[string]bool{"intro": true}, "", StatusCompleted},
		{"current wins over available", intro, nil, "intro", StatusCurrent},
		{"completed wins over current", intro, map[string]bool{"intro": true}, "intro", StatusCompleted},
		{"missing prerequisite locks", loops, nil, "", StatusLocked},
		{"satisfied prerequisite unlocks", loops, map[string]bool{"intro": true}, "", StatusAvailable},
		{"one of two prerequisites still locks", funcs, map[string]bool{"intro": true}, "", StatusLocked},
		{"all prerequisites unlock", funcs, map[string]bool{"intro": true, "loops": true}, "", StatusAvailable},
		{"nil descriptor is available", nil, nil, "", StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStatus(tt.desc, tt.completed, tt.currentID))
		})
	}
}

func TestContentDescriptor_TagSet(t *testing.T) {
	desc := &ContentDescriptor{ID: "x", Tags: []string{"go", "basics", "", "go"}}

	set := desc.TagSet()

	assert.Equal(t, map[string]bool{"go": true, "basics": true}, set)
}
