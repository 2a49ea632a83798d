package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameMetrics(t *testing.T) {
	fm, err := NewFrameMetrics()
	require.NoError(t, err)

	for i := 0; i < 101; i++ {
		fm.Update(0.01, float64(i), 3, 0, false)
	}
	assert.Equal(t, 100.0, fm.FPS())
	assert.InDelta(t, 10.0, fm.FrameTime(), 1e-9)

	fm.Update(0.02, 101, 3, 2, true)
	assert.Equal(t, 100.0, fm.FPS())
}
