package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	"github.com/valerio/go-tilebg/tilebg/background"
	"github.com/valerio/go-tilebg/tilebg/bit"
	"github.com/valerio/go-tilebg/tilebg/collision"
)

var (
	transparentColor = color.RGBA{0x00, 0x00, 0x00, 0x00}
	emptyColor       = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	solidColor       = color.RGBA{0x30, 0x30, 0x30, 0xFF}
)

// tileColor picks a stable color for a tile id. Ids without a fixed color get a grey
// derived from the id so neighbouring ids stay distinguishable.
func tileColor(id uint8, table collision.Table) color.RGBA {
	switch {
	case uint16(id) == background.TransparentTile:
		return transparentColor
	case table.IsCollidable(id):
		return solidColor
	case id == 0:
		return emptyColor
	}
	shade := 0x60 + (id*37)%0x90
	return color.RGBA{shade, shade, shade, 0xFF}
}

// MapImage renders one pixel per cell.
func MapImage(m *MapData, table collision.Table) *image.RGBA {
	w, h := m.Size.Width(), m.Size.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y, row := range m.Cells {
		for x, e := range row {
			img.SetRGBA(x, y, tileColor(bit.Low(e), table))
		}
	}
	return img
}

// ScaleImage enlarges src by an integer factor without smoothing.
func ScaleImage(src image.Image, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// SaveMapPNG writes the map as a PNG where every cell is scale x scale pixels.
func SaveMapPNG(m *MapData, table collision.Table, path string, scale int) error {
	img := ScaleImage(MapImage(m, table), scale)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %v", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %v", err)
	}

	slog.Info("Map snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()), "format", "PNG")
	return nil
}
