// Package parallel provides tile-based parallel evaluation infrastructure
// for gogpu/glass.
//
// The output canvas is divided into 64x64 pixel tiles evaluated
// independently on a work-stealing goroutine pool. Tiles are disjoint
// regions of the shared destination buffer, so no synchronization is
// needed between tile jobs. An atomic dirty bitmap tracks which tiles
// need re-evaluation, so static frames cost nothing and a moving panel
// only re-renders the tiles it touches.
package parallel

// Tile size constants.
const (
	// TileWidth is the width of a tile in pixels.
	TileWidth = 64

	// TileHeight is the height of a tile in pixels.
	// 64x64 keeps a tile's RGBA footprint (16KB) inside L1.
	TileHeight = 64
)

// Tile is a rectangular region of the output canvas. Edge tiles may be
// smaller than the full tile size when the canvas is not evenly
// divisible.
type Tile struct {
	// TX, TY are the tile grid coordinates (0-based).
	TX, TY int

	// X, Y are the top-left pixel coordinates on the canvas.
	X, Y int

	// Width, Height are the actual pixel dimensions.
	Width, Height int
}

// SplitGrid divides a width x height canvas into tiles in row-major
// order. Returns nil for non-positive dimensions.
func SplitGrid(width, height int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}

	tilesX := (width + TileWidth - 1) / TileWidth
	tilesY := (height + TileHeight - 1) / TileHeight

	tiles := make([]Tile, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x := tx * TileWidth
			y := ty * TileHeight
			w := TileWidth
			if x+w > width {
				w = width - x
			}
			h := TileHeight
			if y+h > height {
				h = height - y
			}
			tiles = append(tiles, Tile{TX: tx, TY: ty, X: x, Y: y, Width: w, Height: h})
		}
	}
	return tiles
}

// GridDims returns the tile grid dimensions for a canvas.
func GridDims(width, height int) (tilesX, tilesY int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return (width + TileWidth - 1) / TileWidth, (height + TileHeight - 1) / TileHeight
}
