package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProductionWritesJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	log := Init(Options{Output: &buf})
	log.Debug("hidden")
	log.Info("dish created", "dish_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dish created", entry["msg"])
	assert.EqualValues(t, 7, entry["dish_id"])
}

func TestInitDevelopmentLogsDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(Options{Development: true, Output: &buf})
	slog.Debug("resolving principal")

	assert.Contains(t, buf.String(), "resolving principal")
	assert.Same(t, Log, slog.Default())
}
