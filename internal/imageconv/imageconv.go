// Package imageconv converts a map image into tile records: the image is
// downscaled to the hex grid, each cell's average color is computed, and
// fixed brightness/hue thresholds pick a terrain for the cell.
package imageconv

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/talgya/hexcrawl/internal/terrain"
	"github.com/talgya/hexcrawl/internal/world"
)

// TerrainForColor maps an average cell color to a basic terrain by the
// fixed threshold rules. Defaults to plains.
func TerrainForColor(r, g, b uint8) terrain.Type {
	switch {
	case b > r && b > g && b > 150: // blue dominant
		return terrain.Water
	case g > r && g > b && g > 100: // green dominant
		if g > 150 {
			return terrain.Plains
		}
		return terrain.Forest
	case r > 150 && g > 100 && b < 100: // brown/tan
		if r > 200 {
			return terrain.Desert
		}
		return terrain.Hills
	case r < 100 && g < 100 && b < 100: // dark
		return terrain.Mountains
	case r > 200 && g > 200 && b > 200: // near-white
		return terrain.Tundra
	case g > 80 && b > 80 && r < 100: // dark blue-green
		return terrain.Swamp
	default:
		return terrain.Plains
	}
}

// Convert reads an image and emits one tile record per grid cell. Cells
// are addressed with axial coordinates centered on the grid so the
// resulting map surrounds the origin.
func Convert(path string, cols, rows int) ([]world.TileRecord, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("grid must be positive, got %dx%d", cols, rows)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Downscaling to one pixel per cell averages each cell's color.
	grid := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(grid, grid.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	records := make([]world.TileRecord, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := grid.PixOffset(col, row)
			r, g, b := grid.Pix[i], grid.Pix[i+1], grid.Pix[i+2]
			t := TerrainForColor(r, g, b)

			q := col - cols/2
			rr := row - rows/2
			records = append(records, world.TileRecord{
				Q:           q,
				R:           rr,
				S:           -q - rr,
				Terrain:     string(t),
				Description: fmt.Sprintf("A %s area", t),
				Explored:    false,
				Visible:     true,
			})
		}
	}
	return records, nil
}
