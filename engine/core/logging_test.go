package core

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogging_LevelAndOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		SetLogLevel("info")
	})

	SetLogLevel("warn")
	LogInfo("hidden %d", 1)
	LogWarn("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	SetLogLevel(" DEBUG ")
	LogDebug("debug %s", "on")
	assert.Contains(t, buf.String(), "debug on")

	buf.Reset()
	LogError("%s", NewResourceError("assets/100%done.png", errors.New("gone")))
	assert.Contains(t, buf.String(), "100%done.png")
	assert.NotContains(t, buf.String(), "%!")

	buf.Reset()
	SetLogLevel("chatty")
	assert.Contains(t, buf.String(), "unknown log level")
	LogDebug("quiet again")
	assert.NotContains(t, buf.String(), "quiet again")
}
