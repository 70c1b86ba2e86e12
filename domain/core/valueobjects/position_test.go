package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	pos, err := NewPosition(10, 20)
	require.NoError(t, err)
	assert.Equal(t, 10.0, pos.X())
	assert.Equal(t, 20.0, pos.Y())

	_, err = NewPosition(math.NaN(), 0)
	assert.Error(t, err)
	_, err = NewPosition(0, math.Inf(1))
	assert.Error(t, err)
}

func TestPosition_DistanceTo(t *testing.T) {
	a, _ := NewPosition(0, 0)
	b, _ := NewPosition(3, 4)

	assert.Equal(t, 5.0, a.DistanceTo(b))
	assert.Equal(t, 5.0, b.DistanceTo(a))
}

func TestPosition_Clamp(t *testing.T) {
	p, _ := NewPosition(-50, 900)

	clamped := p.Clamp(30, 770, 30, 570)

	assert.Equal(t, 30.0, clamped.X())
	assert.Equal(t, 570.0, clamped.Y())
}

func TestPosition_Translate(t *testing.T) {
	p, _ := NewPosition(5, 5)

	moved := p.Translate(2, -3)

	assert.Equal(t, 7.0, moved.X())
	assert.Equal(t, 2.0, moved.Y())
	// Value semantics: the original is untouched
	assert.Equal(t, 5.0, p.X())
}
