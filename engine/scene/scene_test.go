package scene

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_AddRemove(t *testing.T) {
	s := NewScene()
	names := []string{"sun", "earth", "venus"}
	for _, n := range names {
		e, err := NewEntity(n, NewBillboard())
		require.NoError(t, err)
		require.NoError(t, s.Add(e))
	}
	assert.Equal(t, names, s.Names())

	dup, err := NewEntity("earth", NewBillboard())
	require.NoError(t, err)
	err = s.Add(dup)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
	assert.Equal(t, 3, s.Len())

	removed, err := s.Remove("earth")
	require.NoError(t, err)
	assert.Equal(t, "earth", removed.Name)
	assert.Equal(t, []string{"sun", "venus"}, s.Names())

	_, err = s.Remove("earth")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	_, err = s.Get("pluto")
	var nf *core.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "pluto", nf.Name)

	require.NoError(t, s.Add(dup))
	assert.Equal(t, []string{"sun", "venus", "earth"}, s.Names())
}
