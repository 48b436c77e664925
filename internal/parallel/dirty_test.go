package parallel

import (
	"sync"
	"testing"
)

func TestNewDirtyRegionInvalid(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-3, 4}} {
		if d := NewDirtyRegion(dims[0], dims[1]); d != nil {
			t.Errorf("NewDirtyRegion(%d, %d) != nil", dims[0], dims[1])
		}
	}
}

func TestDirtyMarkAndClear(t *testing.T) {
	d := NewDirtyRegion(4, 3)
	if d.Count() != 0 {
		t.Fatalf("new region Count() = %d, want 0", d.Count())
	}

	d.Mark(2, 1)
	if !d.IsDirty(2, 1) {
		t.Error("marked tile not dirty")
	}
	if d.IsDirty(1, 2) {
		t.Error("unmarked tile dirty")
	}
	if d.Count() != 1 {
		t.Errorf("Count() = %d, want 1", d.Count())
	}

	d.ClearTile(2, 1)
	if d.IsDirty(2, 1) || d.Count() != 0 {
		t.Error("ClearTile did not clear")
	}
}

func TestDirtyOutOfBounds(t *testing.T) {
	d := NewDirtyRegion(2, 2)
	d.Mark(-1, 0)
	d.Mark(0, -1)
	d.Mark(2, 0)
	d.Mark(0, 2)
	if d.Count() != 0 {
		t.Errorf("out-of-bounds marks changed the bitmap, Count() = %d", d.Count())
	}
	if d.IsDirty(-1, 0) || d.IsDirty(5, 5) {
		t.Error("out-of-bounds IsDirty reported true")
	}
	d.ClearTile(-1, -1) // must not panic
}

func TestDirtyMarkRect(t *testing.T) {
	d := NewDirtyRegion(4, 4)

	// Pixel rect spanning tiles (1,0) through (2,1).
	d.MarkRect(70, 10, 80, 100)
	want := map[[2]int]bool{{1, 0}: true, {2, 0}: true, {1, 1}: true, {2, 1}: true}
	for ty := 0; ty < 4; ty++ {
		for tx := 0; tx < 4; tx++ {
			if d.IsDirty(tx, ty) != want[[2]int{tx, ty}] {
				t.Errorf("tile (%d, %d) dirty = %v", tx, ty, d.IsDirty(tx, ty))
			}
		}
	}
}

func TestDirtyMarkRectEdgeCases(t *testing.T) {
	d := NewDirtyRegion(2, 2)

	d.MarkRect(0, 0, 0, 10)
	d.MarkRect(0, 0, 10, -1)
	if d.Count() != 0 {
		t.Error("empty rects marked tiles")
	}

	// Negative origin clamps to the grid.
	d.MarkRect(-100, -100, 230, 230)
	if !d.IsDirty(0, 0) || !d.IsDirty(1, 0) || !d.IsDirty(0, 1) || !d.IsDirty(1, 1) {
		t.Error("rect with negative origin did not mark clamped tiles")
	}

	d.Clear()
	// Rect entirely past the grid marks nothing.
	d.MarkRect(1000, 1000, 50, 50)
	if d.Count() != 0 {
		t.Errorf("rect past the grid marked %d tiles", d.Count())
	}
}

func TestDirtyMarkAllCount(t *testing.T) {
	// 9x9 = 81 tiles spans two bitmap words and is not a multiple of 64.
	d := NewDirtyRegion(9, 9)
	d.MarkAll()
	if d.Count() != 81 {
		t.Errorf("Count() after MarkAll = %d, want 81", d.Count())
	}
	for ty := 0; ty < 9; ty++ {
		for tx := 0; tx < 9; tx++ {
			if !d.IsDirty(tx, ty) {
				t.Fatalf("tile (%d, %d) not dirty after MarkAll", tx, ty)
			}
		}
	}

	d.Clear()
	if d.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", d.Count())
	}
}

func TestDirtyForEachOrder(t *testing.T) {
	d := NewDirtyRegion(3, 3)
	d.Mark(2, 0)
	d.Mark(0, 1)
	d.Mark(1, 2)

	var got [][2]int
	d.ForEachDirty(func(tx, ty int) {
		got = append(got, [2]int{tx, ty})
	})

	want := [][2]int{{2, 0}, {0, 1}, {1, 2}}
	if len(got) != len(want) {
		t.Fatalf("visited %d tiles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit[%d] = %v, want %v (row-major)", i, got[i], want[i])
		}
	}
}

func TestDirtyConcurrentMarks(t *testing.T) {
	d := NewDirtyRegion(8, 8)
	var wg sync.WaitGroup
	for ty := 0; ty < 8; ty++ {
		for tx := 0; tx < 8; tx++ {
			wg.Add(1)
			go func(tx, ty int) {
				defer wg.Done()
				d.Mark(tx, ty)
			}(tx, ty)
		}
	}
	wg.Wait()
	if d.Count() != 64 {
		t.Errorf("Count() = %d after concurrent marks, want 64", d.Count())
	}
}

func TestDirtyDims(t *testing.T) {
	d := NewDirtyRegion(5, 7)
	if d.TilesX() != 5 || d.TilesY() != 7 {
		t.Errorf("dims = (%d, %d), want (5, 7)", d.TilesX(), d.TilesY())
	}
}
