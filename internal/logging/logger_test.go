package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig_JSONRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger, err := FromConfig("debug", "json", &buf)
	require.NoError(t, err)

	logger.Debug("parse failed", "error", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["err"])
	assert.NotContains(t, entry, "error")
}

func TestFromConfig_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := FromConfig("warn", "text", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)

	_, err = FromConfig("info", "xml", nil)
	assert.Error(t, err)
}
