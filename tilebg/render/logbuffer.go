package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// noLayer marks log entries that were not emitted on behalf of a background layer.
const noLayer = -1

// LogEntry is one flattened log record shown in the viewer's log panel.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Layer   int
	Message string
}

// LogBuffer keeps the last N log entries in a ring.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogBuffer creates a ring holding capacity entries, at least one.
func NewLogBuffer(capacity int) *LogBuffer {
	capacity = max(capacity, 1)
	return &LogBuffer{entries: make([]LogEntry, capacity)}
}

// Add stores an entry, dropping the oldest when the ring is full.
func (b *LogBuffer) Add(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = entry
	b.next++
	if b.next == len(b.entries) {
		b.next = 0
		b.full = true
	}
}

// Len returns the number of stored entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count()
}

func (b *LogBuffer) count() int {
	if b.full {
		return len(b.entries)
	}
	return b.next
}

// GetRecent returns up to limit entries, newest first. limit <= 0 returns all of them.
func (b *LogBuffer) GetRecent(limit int) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := b.count()
	if limit > 0 && limit < n {
		n = limit
	}
	if n == 0 {
		return nil
	}

	out := make([]LogEntry, n)
	size := len(b.entries)
	for i := range out {
		out[i] = b.entries[(b.next-1-i+size)%size]
	}
	return out
}

// LogBufferHandler is a slog.Handler writing into a LogBuffer. A "layer" attribute is
// lifted out of the message into LogEntry.Layer so the panel can tag it.
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Level
	attrs  []slog.Attr
}

func NewLogBufferHandler(buffer *LogBuffer, level slog.Level) *LogBufferHandler {
	return &LogBufferHandler{buffer: buffer, level: level}
}

func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	entry := LogEntry{Time: record.Time, Level: record.Level, Layer: noLayer}

	var sb strings.Builder
	sb.WriteString(record.Message)
	add := func(a slog.Attr) bool {
		if a.Key == "layer" && a.Value.Kind() == slog.KindInt64 {
			entry.Layer = int(a.Value.Int64())
			return true
		}
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	record.Attrs(add)

	entry.Message = sb.String()
	h.buffer.Add(entry)
	return nil
}

func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LogBufferHandler{buffer: h.buffer, level: h.level, attrs: merged}
}

// WithGroup is a no-op, the panel has no room for nested keys.
func (h *LogBufferHandler) WithGroup(string) slog.Handler {
	return h
}

// FormatLogEntry renders an entry as one panel line, e.g. "12:00:01 DEB BG0 Layer persisted".
func FormatLogEntry(entry LogEntry) string {
	level := entry.Level.String()
	if len(level) > 3 {
		level = level[:3]
	}
	line := entry.Time.Format("15:04:05") + " " + level
	if entry.Layer != noLayer {
		line += fmt.Sprintf(" BG%d", entry.Layer)
	}
	return line + " " + entry.Message
}
