package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBufferRing(t *testing.T) {
	b := NewLogBuffer(3)
	assert.Nil(t, b.GetRecent(0))

	for _, msg := range []string{"a", "b", "c", "d"} {
		b.Add(LogEntry{Message: msg})
	}

	assert.Equal(t, 3, b.Len())
	recent := b.GetRecent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message)
	assert.Equal(t, "b", recent[2].Message)

	recent = b.GetRecent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "d", recent[0].Message)
}

func TestLogBufferZeroCapacity(t *testing.T) {
	b := NewLogBuffer(0)
	b.Add(LogEntry{Message: "a"})
	b.Add(LogEntry{Message: "b"})

	recent := b.GetRecent(0)
	require.Len(t, recent, 1)
	assert.Equal(t, "b", recent[0].Message)
}

func TestLogBufferHandlerLayerAttr(t *testing.T) {
	b := NewLogBuffer(10)
	logger := slog.New(NewLogBufferHandler(b, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("Layer persisted", "layer", 2, "map_entries", 1024)
	logger.With("source", "viewer").Warn("Player blocked", "axes", "x")

	recent := b.GetRecent(0)
	require.Len(t, recent, 2)

	assert.Equal(t, noLayer, recent[0].Layer)
	assert.Equal(t, "Player blocked source=viewer axes=x", recent[0].Message)

	assert.Equal(t, 2, recent[1].Layer)
	assert.Equal(t, "Layer persisted map_entries=1024", recent[1].Message)
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 1, 0, time.UTC)

	assert.Equal(t, "12:00:01 DEB BG0 Layer persisted",
		FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelDebug, Layer: 0, Message: "Layer persisted"}))
	assert.Equal(t, "12:00:01 INF Viewer started",
		FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelInfo, Layer: noLayer, Message: "Viewer started"}))
}
