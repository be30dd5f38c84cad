package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCounters(t *testing.T) {
	c, ok := NewCounters([]uint{2, 4}, 3)
	require.True(t, ok)
	assert.Len(t, c, 3+counterHeadroom)
	assert.Equal(t, uint(2), c[0])
	assert.Equal(t, uint(3), c[1])
	for _, v := range c[2:] {
		assert.Zero(t, v)
	}
}

func TestNewCounters_Disabled(t *testing.T) {
	c, ok := NewCounters(nil, 3)
	assert.False(t, ok)
	assert.Nil(t, c)
}

func TestNewCounters_SaturatesAtZero(t *testing.T) {
	c, ok := NewCounters([]uint{0}, 3)
	require.True(t, ok)
	assert.Equal(t, uint(0), c[0])
}

func TestCounters_AdvanceResetsDeeperLevels(t *testing.T) {
	c := Counters{1, 2, 3, 4, 0}

	c.Advance(2)

	assert.Equal(t, Counters{1, 3, 0, 0, 0}, c)
}

func TestCounters_AdvanceGrows(t *testing.T) {
	c := Counters{1}

	c.Advance(4)

	require.GreaterOrEqual(t, len(c), 4)
	assert.Equal(t, "1.0.0.1", c.Join(4))
}

func TestCounters_AdvanceIgnoresInvalidLevel(t *testing.T) {
	c := Counters{1, 1}
	c.Advance(0)
	assert.Equal(t, Counters{1, 1}, c)
}
