package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors(t *testing.T) {
	cause := errors.New("out of memory")
	tests := []struct {
		name    string
		err     error
		matches error
		message string
	}{
		{"configuration", NewConfigurationError("track", "no samples"), ErrConfiguration, "track: no samples"},
		{"not found", NewNotFoundError("entity", "mars"), ErrNotFound, "entity 'mars' not found"},
		{"resource", NewResourceError("vertex buffer", cause), ErrResource, "failed to allocate vertex buffer: out of memory"},
		{"resource without cause", NewResourceError("texture", nil), ErrResource, "failed to allocate texture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.message)
			wrapped := fmt.Errorf("loading scene: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.matches))
			for _, other := range []error{ErrConfiguration, ErrNotFound, ErrResource} {
				if other != tt.matches {
					assert.False(t, errors.Is(wrapped, other))
				}
			}
		})
	}

	assert.True(t, errors.Is(NewResourceError("buffer", cause), cause))
}
