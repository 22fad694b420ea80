package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-tilebg/tilebg/addr"
	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/collision"
	"github.com/valerio/go-tilebg/tilebg/memory"
)

func newTestViewer(t *testing.T) (*Viewer, tcell.SimulationScreen, *background.Layer) {
	t.Helper()

	layer, err := background.New(memory.NewVRAM(), memory.DefaultRegisters(addr.IOBase), background.Config{ScreenBlock: 8})
	require.NoError(t, err)
	entries := make([]uint16, background.BlockEntries)
	entries[5*32+5] = 1
	require.NoError(t, layer.UpdateMap(entries))
	require.NoError(t, layer.Persist())

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)

	// 8x8 box sitting one tile left of the solid tile, touching it
	player := collision.Box{X1: 32, Y1: 40, X2: 39, Y2: 47}
	v := NewViewer(screen, layer, collision.New(layer, collision.DefaultTable()), player)
	return v, screen, layer
}

func cell(screen tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestViewerDraw(t *testing.T) {
	v, screen, _ := newTestViewer(t)

	require.NoError(t, v.Draw())

	assert.Equal(t, '.', cell(screen, 0, 0))
	assert.Equal(t, '#', cell(screen, 5, 5))
	assert.Equal(t, '@', cell(screen, 4, 5))
	assert.Equal(t, 's', cell(screen, 0, statusRow))
}

func TestViewerBlockedMove(t *testing.T) {
	v, _, _ := newTestViewer(t)

	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, collision.CollisionX, v.LastResult())
	assert.Equal(t, 32, v.Player().X1, "blocked on x")

	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
	assert.Equal(t, collision.None, v.LastResult())
	assert.Equal(t, 30, v.Player().X1)

	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)))
	assert.Equal(t, 42, v.Player().Y1)
}

func TestViewerScrollKeys(t *testing.T) {
	v, screen, layer := newTestViewer(t)

	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone)))
	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)))
	x, y := layer.ScrollOffset()
	assert.Equal(t, 8, x)
	assert.Equal(t, 8, y)

	require.NoError(t, v.Draw())
	assert.Equal(t, '#', cell(screen, 4, 4), "solid tile shifts with the scroll")

	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)))
	x, y = layer.ScrollOffset()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestViewerQuit(t *testing.T) {
	v, _, _ := newTestViewer(t)
	assert.True(t, v.Running())

	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, v.Running())
}

func TestViewerRunExitsOnEscape(t *testing.T) {
	v, screen, _ := newTestViewer(t)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- v.Run() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("viewer did not stop")
	}
}

func TestViewerCaptureLogs(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	v, screen, _ := newTestViewer(t)
	v.CaptureLogs(slog.LevelDebug)

	require.NoError(t, v.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	require.NoError(t, v.Draw())

	recent := v.logBuffer.GetRecent(1)
	require.Len(t, recent, 1)
	assert.Contains(t, recent[0].Message, "Player blocked")
	assert.Contains(t, recent[0].Message, "axes=x")
	assert.NotEqual(t, ' ', cell(screen, 0, logRow))
}
