package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLoggerBuilder().
		WithLevel("info").
		WithFormat(FormatJSON).
		WithConsoleWriter(&buf).
		Build()
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("hidden")
	logger.Info().Str("step", "intro").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"step":"intro"`)
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestBuild_FileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stepdiff.log")
	logger, closer, err := NewLoggerBuilder().
		WithLevel("debug").
		WithConsole(false).
		WithFile(path).
		Build()
	require.NoError(t, err)

	logger.Debug().Msg("playback transition")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "playback transition")
}

func TestBuild_NoOutputsIsDisabled(t *testing.T) {
	logger, closer, err := NewLoggerBuilder().WithConsole(false).Build()
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.False(t, logger.Error().Enabled())
}

func TestBuild_InvalidLevel(t *testing.T) {
	_, _, err := NewLoggerBuilder().WithLevel("loud").Build()
	assert.Error(t, err)
}
