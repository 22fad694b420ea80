// Package collision tests bounding box motion against a background layer's tile map.
//
// Boxes are checked one axis at a time: only the leading edge in the direction of
// motion is sampled, at both of its corners. Because each axis reports independently,
// a mover blocked on X can keep sliding along Y and vice versa.
package collision

import (
	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/bit"
)

// Result is a bitmask of blocked axes.
type Result uint8

const (
	CollisionX Result = 1 << iota
	CollisionY
)

// None means no axis is blocked.
const None Result = 0

// Has reports whether every axis in mask is blocked.
func (r Result) Has(mask Result) bool {
	return r&mask == mask
}

func (r Result) String() string {
	switch r {
	case None:
		return "none"
	case CollisionX:
		return "x"
	case CollisionY:
		return "y"
	case CollisionX | CollisionY:
		return "x|y"
	}
	return "invalid"
}

// Table classifies 8-bit tile ids as solid or passable.
type Table struct {
	solid [256]bool
}

// NewTable returns a table where only the given ids are collidable.
func NewTable(ids ...uint8) Table {
	var t Table
	for _, id := range ids {
		t.solid[id] = true
	}
	return t
}

// DefaultTable marks tile id 1 as the only collidable tile.
func DefaultTable() Table {
	return NewTable(1)
}

// Set marks id as collidable or not.
func (t *Table) Set(id uint8, collidable bool) {
	t.solid[id] = collidable
}

func (t Table) IsCollidable(id uint8) bool {
	return t.solid[id]
}

// IDs returns the collidable ids in ascending order.
func (t Table) IDs() []uint8 {
	var ids []uint8
	for id, solid := range t.solid {
		if solid {
			ids = append(ids, uint8(id))
		}
	}
	return ids
}

// Box is an axis aligned bounding box in screen pixels. (X1, Y1) is the top left
// corner and (X2, Y2) the bottom right one, both inclusive.
type Box struct {
	X1, Y1 int
	X2, Y2 int
}

// Translate returns the box moved by d.
func (b Box) Translate(d Delta) Box {
	return Box{X1: b.X1 + d.X, Y1: b.Y1 + d.Y, X2: b.X2 + d.X, Y2: b.Y2 + d.Y}
}

// Delta is the motion requested for one step.
type Delta struct {
	X, Y int
}

// Scroll is the background scroll offset the box is tested against.
type Scroll struct {
	X, Y int
}

// Detector runs collision queries against one layer.
type Detector struct {
	layer *background.Layer
	table Table
}

// New creates a detector for layer using table to classify tiles.
func New(layer *background.Layer, table Table) *Detector {
	return &Detector{layer: layer, table: table}
}

// Table returns the classification table in use.
func (d *Detector) Table() Table {
	return d.table
}

// PointCollision reports whether the tile under pixel (x, y) is collidable.
// Attribute bits (flip, palette) in the high byte of the map entry are ignored.
func (d *Detector) PointCollision(x, y int, s Scroll) (bool, error) {
	entry, err := d.layer.EntryAt(x, y, s.X, s.Y)
	if err != nil {
		return false, err
	}
	return d.table.IsCollidable(bit.Low(entry)), nil
}

// either reports whether any of the two points is collidable.
func (d *Detector) either(x1, y1, x2, y2 int, s Scroll) (bool, error) {
	hit, err := d.PointCollision(x1, y1, s)
	if err != nil || hit {
		return hit, err
	}
	return d.PointCollision(x2, y2, s)
}

// Test checks the leading edges of box moved by delta and returns the blocked axes.
// An axis with zero motion is never checked and never blocked.
func (d *Detector) Test(box Box, delta Delta, s Scroll) (Result, error) {
	result := None

	var hit bool
	var err error
	switch {
	case delta.X > 0:
		hit, err = d.either(box.X2+delta.X, box.Y1, box.X2+delta.X, box.Y2, s)
	case delta.X < 0:
		hit, err = d.either(box.X1+delta.X, box.Y1, box.X1+delta.X, box.Y2, s)
	}
	if err != nil {
		return None, err
	}
	if hit {
		result |= CollisionX
	}

	hit = false
	switch {
	case delta.Y > 0:
		hit, err = d.either(box.X1, box.Y2+delta.Y, box.X2, box.Y2+delta.Y, s)
	case delta.Y < 0:
		hit, err = d.either(box.X1, box.Y1+delta.Y, box.X2, box.Y1+delta.Y, s)
	}
	if err != nil {
		return None, err
	}
	if hit {
		result |= CollisionY
	}

	return result, nil
}

// Move applies the unblocked components of delta to box and returns the new box along
// with the blocked axes.
func (d *Detector) Move(box Box, delta Delta, s Scroll) (Box, Result, error) {
	result, err := d.Test(box, delta, s)
	if err != nil {
		return box, None, err
	}
	if result.Has(CollisionX) {
		delta.X = 0
	}
	if result.Has(CollisionY) {
		delta.Y = 0
	}
	return box.Translate(delta), result, nil
}
