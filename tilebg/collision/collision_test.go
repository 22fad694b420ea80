package collision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-tilebg/tilebg/addr"
	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/memory"
)

// newDetector builds a 32x32 layer whose map is all id 0 except the given tiles.
func newDetector(t *testing.T, tiles map[[2]int]uint16) *Detector {
	t.Helper()
	layer, err := background.New(memory.NewVRAM(), memory.DefaultRegisters(addr.IOBase), background.Config{ScreenBlock: 8})
	require.NoError(t, err)

	entries := make([]uint16, background.BlockEntries)
	for pos, id := range tiles {
		entries[pos[1]*32+pos[0]] = id
	}
	require.NoError(t, layer.UpdateMap(entries))
	require.NoError(t, layer.Persist())

	return New(layer, DefaultTable())
}

func TestTable(t *testing.T) {
	table := DefaultTable()
	assert.True(t, table.IsCollidable(1))
	assert.False(t, table.IsCollidable(0))
	assert.False(t, table.IsCollidable(192))
	assert.Equal(t, []uint8{1}, table.IDs())

	table.Set(42, true)
	table.Set(1, false)
	assert.True(t, table.IsCollidable(42))
	assert.False(t, table.IsCollidable(1))

	assert.Equal(t, []uint8{3, 7}, NewTable(7, 3).IDs())
}

func TestPointCollisionMasksAttributes(t *testing.T) {
	withAttrs := newDetector(t, map[[2]int]uint16{{2, 2}: 0x0301})
	plain := newDetector(t, map[[2]int]uint16{{2, 2}: 0x0001})

	for _, d := range []*Detector{withAttrs, plain} {
		hit, err := d.PointCollision(20, 20, Scroll{})
		require.NoError(t, err)
		assert.True(t, hit)

		hit, err = d.PointCollision(0, 0, Scroll{})
		require.NoError(t, err)
		assert.False(t, hit)
	}

	// high byte alone must not make a tile solid
	attrsOnly := newDetector(t, map[[2]int]uint16{{2, 2}: 0x0100})
	hit, err := attrsOnly.PointCollision(20, 20, Scroll{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestPointCollisionScroll(t *testing.T) {
	d := newDetector(t, map[[2]int]uint16{{5, 5}: 1})

	hit, err := d.PointCollision(0, 0, Scroll{X: 40, Y: 40})
	require.NoError(t, err)
	assert.True(t, hit)

	// wraps around the 256 pixel map
	hit, err = d.PointCollision(40+256, 40-512, Scroll{})
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestNoMotionNoCollision(t *testing.T) {
	// every tile is solid
	tiles := map[[2]int]uint16{}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			tiles[[2]int{x, y}] = 1
		}
	}
	d := newDetector(t, tiles)

	result, err := d.Test(Box{X1: 10, Y1: 10, X2: 17, Y2: 17}, Delta{}, Scroll{})
	require.NoError(t, err)
	assert.Equal(t, None, result)

	result, err = d.Test(Box{X1: 10, Y1: 10, X2: 17, Y2: 17}, Delta{X: 1, Y: 1}, Scroll{})
	require.NoError(t, err)
	assert.Equal(t, CollisionX|CollisionY, result)
}

func TestAxisSeparatedTest(t *testing.T) {
	// solid tile at (5,5) covers pixels 40..47 on both axes
	solid := map[[2]int]uint16{{5, 5}: 1}

	tests := []struct {
		name     string
		box      Box
		delta    Delta
		expected Result
	}{
		{"right into tile, top corner", Box{X1: 30, Y1: 44, X2: 37, Y2: 51}, Delta{X: 4}, CollisionX},
		{"right into tile, bottom corner", Box{X1: 30, Y1: 36, X2: 37, Y2: 43}, Delta{X: 4}, CollisionX},
		{"right, edge not reaching", Box{X1: 30, Y1: 40, X2: 37, Y2: 47}, Delta{X: 2}, None},
		{"left away from tile", Box{X1: 30, Y1: 40, X2: 37, Y2: 47}, Delta{X: -4}, None},
		{"left into tile", Box{X1: 50, Y1: 40, X2: 57, Y2: 47}, Delta{X: -4}, CollisionX},
		{"down into tile", Box{X1: 40, Y1: 30, X2: 47, Y2: 37}, Delta{Y: 4}, CollisionY},
		{"up into tile", Box{X1: 40, Y1: 50, X2: 47, Y2: 57}, Delta{Y: -4}, CollisionY},
		{"up away from tile", Box{X1: 40, Y1: 30, X2: 47, Y2: 37}, Delta{Y: -4}, None},
		{"diagonal blocked on x only", Box{X1: 30, Y1: 40, X2: 37, Y2: 47}, Delta{X: 4, Y: -4}, CollisionX},
		{"diagonal blocked on y only", Box{X1: 40, Y1: 30, X2: 47, Y2: 37}, Delta{X: -4, Y: 4}, CollisionY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDetector(t, solid)
			result, err := d.Test(tt.box, tt.delta, Scroll{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result, "got %s", result)

			empty := newDetector(t, nil)
			result, err = empty.Test(tt.box, tt.delta, Scroll{})
			require.NoError(t, err)
			assert.Equal(t, None, result, "empty map must never block")
		})
	}
}

func TestMove(t *testing.T) {
	d := newDetector(t, map[[2]int]uint16{{5, 5}: 1})
	box := Box{X1: 30, Y1: 40, X2: 37, Y2: 47}

	moved, result, err := d.Move(box, Delta{X: 4, Y: -4}, Scroll{})
	require.NoError(t, err)
	assert.Equal(t, CollisionX, result)
	assert.Equal(t, Box{X1: 30, Y1: 36, X2: 37, Y2: 43}, moved, "slides along y")
}

func TestTestWithoutMap(t *testing.T) {
	layer, err := background.New(memory.NewVRAM(), memory.DefaultRegisters(addr.IOBase), background.Config{ScreenBlock: 8})
	require.NoError(t, err)
	d := New(layer, DefaultTable())

	_, err = d.Test(Box{X2: 7, Y2: 7}, Delta{X: 1}, Scroll{})
	assert.True(t, errors.Is(err, background.ErrNoMap))

	_, err = d.PointCollision(0, 0, Scroll{})
	assert.True(t, errors.Is(err, background.ErrNoMap))

	result, err := d.Test(Box{X2: 7, Y2: 7}, Delta{}, Scroll{})
	require.NoError(t, err)
	assert.Equal(t, None, result)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "x|y", (CollisionX | CollisionY).String())
	assert.True(t, (CollisionX | CollisionY).Has(CollisionY))
	assert.False(t, CollisionX.Has(CollisionY))
}
