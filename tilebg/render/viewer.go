package render

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/bit"
	"github.com/valerio/go-tilebg/tilebg/collision"
	"github.com/valerio/go-tilebg/tilebg/debug"
)

const (
	// visible area of the display, in tiles (240x160 px)
	ViewTilesW = 30
	ViewTilesH = 20

	statusRow = ViewTilesH
	logRow    = ViewTilesH + 1
	logLines  = 5

	playerStep = 2
	scrollStep = background.TileSize
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleSolid   = styleDefault.Foreground(tcell.ColorYellow)
	stylePlayer  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleBlocked = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLog     = styleDefault.Foreground(tcell.ColorGray)
)

// Viewer draws the visible part of a layer in a terminal and moves a player box across
// it, stopping it per axis wherever the collision detector reports a solid tile.
type Viewer struct {
	screen    tcell.Screen
	layer     *background.Layer
	detector  *collision.Detector
	player    collision.Box
	last      collision.Result
	logBuffer *LogBuffer
	running   bool
}

// NewViewer creates a viewer on an initialized screen.
func NewViewer(screen tcell.Screen, layer *background.Layer, detector *collision.Detector, player collision.Box) *Viewer {
	return &Viewer{
		screen:    screen,
		layer:     layer,
		detector:  detector,
		player:    player,
		logBuffer: NewLogBuffer(100),
		running:   true,
	}
}

// CaptureLogs routes the default slog logger into the viewer's log panel.
func (v *Viewer) CaptureLogs(level slog.Level) {
	slog.SetDefault(slog.New(NewLogBufferHandler(v.logBuffer, level)))
}

func (v *Viewer) Player() collision.Box        { return v.player }
func (v *Viewer) LastResult() collision.Result { return v.last }
func (v *Viewer) Running() bool                { return v.running }

// Run draws and handles key events until the user quits.
func (v *Viewer) Run() error {
	v.screen.SetStyle(styleDefault)
	v.screen.Clear()
	slog.Info("Viewer started", "layer", v.layer.Index(), "size", v.layer.Size().String())

	for v.running {
		if err := v.Draw(); err != nil {
			return err
		}
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if err := v.HandleKey(ev); err != nil {
				return err
			}
		case *tcell.EventResize:
			v.screen.Sync()
		case nil:
			// screen finalized
			return nil
		}
	}
	return nil
}

// HandleKey applies one key press: arrows move the player, WASD scroll the layer,
// q or Esc quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) error {
	var delta collision.Delta

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.running = false
		return nil
	case tcell.KeyLeft:
		delta.X = -playerStep
	case tcell.KeyRight:
		delta.X = playerStep
	case tcell.KeyUp:
		delta.Y = -playerStep
	case tcell.KeyDown:
		delta.Y = playerStep
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			v.running = false
		case 'a':
			v.layer.ScrollSpeed(-scrollStep, 0)
		case 'd':
			v.layer.ScrollSpeed(scrollStep, 0)
		case 'w':
			v.layer.ScrollSpeed(0, -scrollStep)
		case 's':
			v.layer.ScrollSpeed(0, scrollStep)
		}
		return nil
	default:
		return nil
	}

	sx, sy := v.layer.ScrollOffset()
	moved, result, err := v.detector.Move(v.player, delta, collision.Scroll{X: sx, Y: sy})
	if err != nil {
		return fmt.Errorf("collision test failed: %w", err)
	}
	if result != collision.None {
		slog.Debug("Player blocked", "axes", result.String(), "box", fmt.Sprintf("%+v", v.player))
	}
	v.player = moved
	v.last = result
	return nil
}

// Draw renders the visible tiles, the player, a status line and the log panel.
func (v *Viewer) Draw() error {
	v.screen.Clear()
	table := v.detector.Table()

	for cy := 0; cy < ViewTilesH; cy++ {
		for cx := 0; cx < ViewTilesW; cx++ {
			entry, err := v.layer.Entry(cx*background.TileSize, cy*background.TileSize)
			if err != nil {
				return err
			}
			id := bit.Low(entry)
			style := styleDefault
			if table.IsCollidable(id) {
				style = styleSolid
			}
			v.screen.SetContent(cx, cy, debug.Glyph(id, table), nil, style)
		}
	}

	playerStyle := stylePlayer
	if v.last != collision.None {
		playerStyle = styleBlocked
	}
	for cy := v.player.Y1 >> 3; cy <= v.player.Y2>>3; cy++ {
		for cx := v.player.X1 >> 3; cx <= v.player.X2>>3; cx++ {
			if cx >= 0 && cx < ViewTilesW && cy >= 0 && cy < ViewTilesH {
				v.screen.SetContent(cx, cy, '@', nil, playerStyle)
			}
		}
	}

	sx, sy := v.layer.ScrollOffset()
	status := fmt.Sprintf("scroll=(%d,%d) player=(%d,%d)-(%d,%d) blocked=%s",
		sx, sy, v.player.X1, v.player.Y1, v.player.X2, v.player.Y2, v.last)
	v.drawText(0, statusRow, status, styleDefault)

	for i, entry := range v.logBuffer.GetRecent(logLines) {
		v.drawText(0, logRow+i, FormatLogEntry(entry), styleLog)
	}

	v.screen.Show()
	return nil
}

func (v *Viewer) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
