package parallel

import "testing"

func TestSplitGridExact(t *testing.T) {
	tiles := SplitGrid(128, 128)
	if len(tiles) != 4 {
		t.Fatalf("len(tiles) = %d, want 4", len(tiles))
	}
	for _, tile := range tiles {
		if tile.Width != TileWidth || tile.Height != TileHeight {
			t.Errorf("tile (%d, %d) = %dx%d, want full size", tile.TX, tile.TY, tile.Width, tile.Height)
		}
		if tile.X != tile.TX*TileWidth || tile.Y != tile.TY*TileHeight {
			t.Errorf("tile (%d, %d) origin = (%d, %d)", tile.TX, tile.TY, tile.X, tile.Y)
		}
	}
}

func TestSplitGridUneven(t *testing.T) {
	tiles := SplitGrid(100, 70)
	if len(tiles) != 4 {
		t.Fatalf("len(tiles) = %d, want 4", len(tiles))
	}

	// Row-major order: (0,0) (1,0) (0,1) (1,1).
	wantOrder := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, tile := range tiles {
		if tile.TX != wantOrder[i][0] || tile.TY != wantOrder[i][1] {
			t.Errorf("tiles[%d] = (%d, %d), want (%d, %d)", i, tile.TX, tile.TY, wantOrder[i][0], wantOrder[i][1])
		}
	}

	// Edge tiles are clipped to the canvas.
	last := tiles[3]
	if last.Width != 100-TileWidth || last.Height != 70-TileHeight {
		t.Errorf("corner tile = %dx%d, want %dx%d", last.Width, last.Height, 100-TileWidth, 70-TileHeight)
	}

	// Tiles cover every pixel exactly once.
	area := 0
	for _, tile := range tiles {
		area += tile.Width * tile.Height
	}
	if area != 100*70 {
		t.Errorf("total tile area = %d, want %d", area, 100*70)
	}
}

func TestSplitGridSmall(t *testing.T) {
	tiles := SplitGrid(10, 10)
	if len(tiles) != 1 {
		t.Fatalf("len(tiles) = %d, want 1", len(tiles))
	}
	if tiles[0].Width != 10 || tiles[0].Height != 10 {
		t.Errorf("tile = %dx%d, want 10x10", tiles[0].Width, tiles[0].Height)
	}
}

func TestSplitGridInvalid(t *testing.T) {
	for _, dims := range [][2]int{{0, 64}, {64, 0}, {-1, 64}, {0, 0}} {
		if tiles := SplitGrid(dims[0], dims[1]); tiles != nil {
			t.Errorf("SplitGrid(%d, %d) = %v, want nil", dims[0], dims[1], tiles)
		}
	}
}

func TestGridDims(t *testing.T) {
	tests := []struct {
		w, h           int
		wantTX, wantTY int
	}{
		{64, 64, 1, 1},
		{65, 64, 2, 1},
		{128, 200, 2, 4},
		{1, 1, 1, 1},
		{0, 64, 0, 0},
		{64, -5, 0, 0},
	}
	for _, tt := range tests {
		tx, ty := GridDims(tt.w, tt.h)
		if tx != tt.wantTX || ty != tt.wantTY {
			t.Errorf("GridDims(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, tx, ty, tt.wantTX, tt.wantTY)
		}
	}
}
