// Package level loads background layer descriptions from YAML files.
//
// A level names the hardware slot a layer occupies, its map drawn as rows of legend
// characters, and which tile ids the collision detector treats as solid:
//
//	name: demo
//	layer:
//	  index: 0
//	  screen_block: 8
//	  width: 32
//	  height: 32
//	legend:
//	  ".": 0
//	  "#": 1
//	rows:
//	  - "########"
//	  - "#......#"
//	collidable: [1]
//	player: {x1: 16, y1: 16, x2: 23, y2: 23}
package level

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/collision"
	"github.com/valerio/go-tilebg/tilebg/memory"
)

// ErrInvalidLevel is returned for level files that cannot describe a layer.
var ErrInvalidLevel = errors.New("invalid level")

const defaultScreenBlock = 8

// LayerSpec is the hardware placement of the level's layer.
type LayerSpec struct {
	Index       int  `yaml:"index"`
	CharBlock   int  `yaml:"char_block"`
	ScreenBlock *int `yaml:"screen_block,omitempty"`
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	Colors      int  `yaml:"colors"`
	Wrap        bool `yaml:"wrap"`
	Mosaic      bool `yaml:"mosaic"`
}

// Rect is a box in screen pixels, corners inclusive.
type Rect struct {
	X1 int `yaml:"x1"`
	Y1 int `yaml:"y1"`
	X2 int `yaml:"x2"`
	Y2 int `yaml:"y2"`
}

// Point is a pixel offset.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Level is the decoded content of a level file.
type Level struct {
	Name       string            `yaml:"name"`
	Layer      LayerSpec         `yaml:"layer"`
	Legend     map[string]uint16 `yaml:"legend"`
	Fill       uint16            `yaml:"fill"`
	Rows       []string          `yaml:"rows"`
	Collidable []uint8           `yaml:"collidable"`
	TileData   string            `yaml:"tile_data"`
	Player     *Rect             `yaml:"player,omitempty"`
	Scroll     Point             `yaml:"scroll"`
}

// Load reads and parses a level file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", path, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

// Parse decodes a level, fills in defaults and validates it.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	lvl.applyDefaults()
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) applyDefaults() {
	if l.Layer.Width == 0 {
		l.Layer.Width = 32
	}
	if l.Layer.Height == 0 {
		l.Layer.Height = 32
	}
	if l.Layer.Colors == 0 {
		l.Layer.Colors = 256
	}
	if l.Layer.ScreenBlock == nil {
		sb := defaultScreenBlock
		l.Layer.ScreenBlock = &sb
	}
	if l.Legend == nil {
		l.Legend = map[string]uint16{".": 0, "#": 1}
	}
	if l.Collidable == nil {
		l.Collidable = []uint8{1}
	}
}

// Validate checks everything that can be checked without touching video memory.
func (l *Level) Validate() error {
	size, err := background.SizeFor(l.Layer.Width, l.Layer.Height)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if l.Layer.Colors != 16 && l.Layer.Colors != 256 {
		return fmt.Errorf("%w: colors must be 16 or 256, got %d", ErrInvalidLevel, l.Layer.Colors)
	}
	for key := range l.Legend {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("%w: legend key %q must be a single character", ErrInvalidLevel, key)
		}
	}
	if len(l.Rows) > size.Height() {
		return fmt.Errorf("%w: %d rows for a map %d tiles tall", ErrInvalidLevel, len(l.Rows), size.Height())
	}
	for y, row := range l.Rows {
		runes := []rune(row)
		if len(runes) > size.Width() {
			return fmt.Errorf("%w: row %d is %d tiles wide, map is %d", ErrInvalidLevel, y, len(runes), size.Width())
		}
		for x, r := range runes {
			if _, ok := l.Legend[string(r)]; !ok {
				return fmt.Errorf("%w: row %d column %d: %q is not in the legend", ErrInvalidLevel, y, x, r)
			}
		}
	}
	if _, err := hex.DecodeString(stripSpace(l.TileData)); err != nil {
		return fmt.Errorf("%w: tile_data: %v", ErrInvalidLevel, err)
	}
	if p := l.Player; p != nil && (p.X2 < p.X1 || p.Y2 < p.Y1) {
		return fmt.Errorf("%w: player box corners are reversed", ErrInvalidLevel)
	}
	return nil
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Size returns the map layout.
func (l *Level) Size() background.Size {
	size, _ := background.SizeFor(l.Layer.Width, l.Layer.Height)
	return size
}

// Entries lays the rows out in screen block order. Cells not covered by a row use Fill.
func (l *Level) Entries() []uint16 {
	size := l.Size()
	entries := make([]uint16, size.Entries())
	for i := range entries {
		entries[i] = l.Fill
	}

	for ty, row := range l.Rows {
		for tx, r := range []rune(row) {
			i, err := size.TileIndex(tx*background.TileSize, ty*background.TileSize, 0, 0)
			if err != nil {
				continue
			}
			entries[i] = l.Legend[string(r)]
		}
	}
	return entries
}

// Config returns the layer configuration described by the level.
func (l *Level) Config() background.Config {
	return background.Config{
		Index:       l.Layer.Index,
		CharBlock:   l.Layer.CharBlock,
		ScreenBlock: *l.Layer.ScreenBlock,
		Size:        l.Size(),
		Colors16:    l.Layer.Colors == 16,
		Wrap:        l.Layer.Wrap,
		Mosaic:      l.Layer.Mosaic,
	}
}

// Table returns the collision table for the level.
func (l *Level) Table() collision.Table {
	return collision.NewTable(l.Collidable...)
}

// PlayerBox returns the player's starting box, or an 8x8 box at the origin.
func (l *Level) PlayerBox() collision.Box {
	if l.Player == nil {
		return collision.Box{X2: background.TileSize - 1, Y2: background.TileSize - 1}
	}
	return collision.Box{X1: l.Player.X1, Y1: l.Player.Y1, X2: l.Player.X2, Y2: l.Player.Y2}
}

// Build creates the layer, installs tile data and map, applies the initial scroll and
// persists it, leaving the layer visible.
func (l *Level) Build(mem memory.VideoMemory, regs memory.Registers) (*background.Layer, error) {
	layer, err := background.New(mem, regs, l.Config())
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}

	data, _ := hex.DecodeString(stripSpace(l.TileData))
	if err := layer.SetData(data); err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	if err := layer.UpdateMap(l.Entries()); err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	layer.Scroll(l.Scroll.X, l.Scroll.Y)

	if err := layer.Persist(); err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	return layer, nil
}
