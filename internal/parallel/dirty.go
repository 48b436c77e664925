package parallel

import "sync/atomic"

// DirtyRegion tracks which tiles need re-evaluation using an atomic
// bitmap. It provides lock-free, thread-safe operations for concurrent
// access.
//
// The bitmap uses one bit per tile, packed into uint64 words (64 tiles
// per word). All methods are safe for concurrent use without external
// synchronization.
//
// A static glass panel over a static background costs nothing per frame;
// moving the panel marks only the union of its old and new footprints,
// and a parameter change marks everything.
type DirtyRegion struct {
	// words is the atomic bitmap; bit index = ty*tilesX + tx.
	words []atomic.Uint64

	tilesX int
	tilesY int
}

// NewDirtyRegion creates a dirty tracker for the given tile grid
// dimensions. All tiles start clean. Returns nil for invalid dimensions.
func NewDirtyRegion(tilesX, tilesY int) *DirtyRegion {
	if tilesX <= 0 || tilesY <= 0 {
		return nil
	}

	totalTiles := tilesX * tilesY
	numWords := (totalTiles + 63) / 64

	return &DirtyRegion{
		words:  make([]atomic.Uint64, numWords),
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

// Mark marks a single tile dirty. Lock-free O(1) via atomic OR.
// Does nothing if coordinates are out of bounds.
func (d *DirtyRegion) Mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << uint(idx&63))
}

// MarkRect marks all tiles intersecting the given pixel rectangle.
// Coordinates are in pixel space, not tile space.
func (d *DirtyRegion) MarkRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}

	tx1 := x / TileWidth
	ty1 := y / TileHeight
	tx2 := (x + w - 1) / TileWidth
	ty2 := (y + h - 1) / TileHeight

	if tx1 < 0 {
		tx1 = 0
	}
	if ty1 < 0 {
		ty1 = 0
	}
	if tx2 >= d.tilesX {
		tx2 = d.tilesX - 1
	}
	if ty2 >= d.tilesY {
		ty2 = d.tilesY - 1
	}

	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.Mark(tx, ty)
		}
	}
}

// MarkAll marks every tile dirty.
func (d *DirtyRegion) MarkAll() {
	total := d.tilesX * d.tilesY
	for i := range d.words {
		bits := uint64(0)
		for b := 0; b < 64; b++ {
			if i*64+b < total {
				bits |= 1 << uint(b)
			}
		}
		d.words[i].Store(bits)
	}
}

// Clear marks every tile clean.
func (d *DirtyRegion) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// ClearTile marks a single tile clean.
func (d *DirtyRegion) ClearTile(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].And(^uint64(1 << uint(idx&63)))
}

// IsDirty reports whether a tile is marked dirty.
// Out-of-bounds coordinates report false.
func (d *DirtyRegion) IsDirty(tx, ty int) bool {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return false
	}
	idx := ty*d.tilesX + tx
	return d.words[idx/64].Load()&(1<<uint(idx&63)) != 0
}

// Count returns the number of dirty tiles.
func (d *DirtyRegion) Count() int {
	count := 0
	for i := range d.words {
		w := d.words[i].Load()
		for w != 0 {
			w &= w - 1
			count++
		}
	}
	return count
}

// ForEachDirty calls fn for each dirty tile in row-major order.
// Concurrent marks during iteration may or may not be observed.
func (d *DirtyRegion) ForEachDirty(fn func(tx, ty int)) {
	for ty := 0; ty < d.tilesY; ty++ {
		for tx := 0; tx < d.tilesX; tx++ {
			if d.IsDirty(tx, ty) {
				fn(tx, ty)
			}
		}
	}
}

// TilesX returns the grid width in tiles.
func (d *DirtyRegion) TilesX() int { return d.tilesX }

// TilesY returns the grid height in tiles.
func (d *DirtyRegion) TilesY() int { return d.tilesY }
