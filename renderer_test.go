package glass

import (
	"math"
	"testing"
)

// gradientPixmap fills a pixmap with a horizontal ramp so refraction
// offsets are visible in the output.
func gradientPixmap(w, h int) *Pixmap {
	pm := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(x) / float64(w-1)
			pm.SetPixel(x, y, RGB(v, v, v))
		}
	}
	return pm
}

func pixmapsEqual(a, b *Pixmap) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	da, db := a.Data(), b.Data()
	for i := range da {
		if da[i] != db[i] {
			return false
		}
	}
	return true
}

func TestRenderSizeMismatch(t *testing.T) {
	r := NewRenderer(64, 64, WithoutAccelerator())
	defer r.Close()

	bg := NewPixmap(64, 64)
	tests := []struct {
		name string
		dst  *Pixmap
		bg   *Pixmap
	}{
		{"nil dst", nil, bg},
		{"nil background", NewPixmap(64, 64), nil},
		{"wrong dst size", NewPixmap(32, 64), bg},
		{"wrong background size", NewPixmap(64, 64), NewPixmap(64, 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Render(tt.dst, tt.bg, DefaultParams()); err != ErrSizeMismatch {
				t.Errorf("Render() = %v, want ErrSizeMismatch", err)
			}
		})
	}
}

func TestRenderWithoutPanel(t *testing.T) {
	r := NewRenderer(80, 60, WithoutAccelerator())
	defer r.Close()

	bg := gradientPixmap(80, 60)
	dst := NewPixmap(80, 60)
	if err := r.Render(dst, bg, DefaultParams()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !pixmapsEqual(dst, bg) {
		t.Error("renderer without a panel did not pass the background through")
	}
}

func TestRenderDisabled(t *testing.T) {
	r := NewRenderer(80, 60, WithoutAccelerator())
	defer r.Close()
	r.SetPanel(NewPanel(40, 30, 8), Vec2{X: 40, Y: 30})

	p := DefaultParams()
	p.Enabled = false

	bg := gradientPixmap(80, 60)
	dst := NewPixmap(80, 60)
	if err := r.Render(dst, bg, p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !pixmapsEqual(dst, bg) {
		t.Error("disabled renderer did not pass the background through")
	}
}

func TestRenderWithPanel(t *testing.T) {
	const w, h = 128, 96
	r := NewRenderer(w, h, WithoutAccelerator())
	defer r.Close()

	center := Vec2{X: 64, Y: 48}
	panel := NewPanel(60, 40, 10)
	r.SetPanel(panel, center)

	bg := gradientPixmap(w, h)
	dst := NewPixmap(w, h)
	if err := r.Render(dst, bg, DefaultParams()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Refraction under the panel bends the ramp, so at least some pixels
	// inside the footprint must differ from the background.
	changed := 0
	for y := 30; y < 66; y++ {
		for x := 36; x < 92; x++ {
			if dst.GetPixel(x, y) != bg.GetPixel(x, y) {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("no pixels changed under the panel")
	}

	// Far outside the footprint the background is copied exactly.
	for _, pt := range [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}, {5, 48}} {
		x, y := pt[0], pt[1]
		if dst.GetPixel(x, y) != bg.GetPixel(x, y) {
			t.Errorf("pixel (%d, %d) outside footprint changed", x, y)
		}
	}
}

func TestRenderDirtyTracking(t *testing.T) {
	const w, h = 128, 96
	r := NewRenderer(w, h, WithoutAccelerator())
	defer r.Close()
	r.SetPanel(NewPanel(60, 40, 10), Vec2{X: 64, Y: 48})

	bg := gradientPixmap(w, h)
	dst := NewPixmap(w, h)
	params := DefaultParams()
	if err := r.Render(dst, bg, params); err != nil {
		t.Fatalf("first Render: %v", err)
	}

	// A second frame with identical inputs has no dirty tiles: the
	// destination is left untouched even if we scribble on it.
	dst.SetPixel(0, 0, RGB(1, 0, 1))
	want := dst.GetPixel(0, 0)
	if err := r.Render(dst, bg, params); err != nil {
		t.Fatalf("second Render: %v", err)
	}
	if dst.GetPixel(0, 0) != want {
		t.Error("clean frame re-rendered tiles")
	}

	// Invalidating that corner makes exactly it render again.
	r.InvalidateRect(0, 0, 1, 1)
	if err := r.Render(dst, bg, params); err != nil {
		t.Fatalf("third Render: %v", err)
	}
	if dst.GetPixel(0, 0) == want {
		t.Error("invalidated tile was not re-rendered")
	}
}

func TestRenderParamsChangeInvalidates(t *testing.T) {
	const w, h = 128, 96
	r := NewRenderer(w, h, WithoutAccelerator())
	defer r.Close()
	center := Vec2{X: 64, Y: 48}
	r.SetPanel(NewPanel(60, 40, 10), center)

	bg := gradientPixmap(w, h)
	a := NewPixmap(w, h)
	params := DefaultParams()
	if err := r.Render(a, bg, params); err != nil {
		t.Fatalf("Render: %v", err)
	}

	params.Displacement = 2.5
	b := NewPixmap(w, h)
	b.CopyFrom(a)
	if err := r.Render(b, bg, params); err != nil {
		t.Fatalf("Render after params change: %v", err)
	}
	if pixmapsEqual(a, b) {
		t.Error("changing displacement did not change the output")
	}
}

func TestRenderPanelMoveInvalidates(t *testing.T) {
	const w, h = 192, 96
	r := NewRenderer(w, h, WithoutAccelerator())
	defer r.Close()

	panel := NewPanel(50, 40, 8)
	r.SetPanel(panel, Vec2{X: 48, Y: 48})

	bg := gradientPixmap(w, h)
	dst := NewPixmap(w, h)
	params := DefaultParams()
	if err := r.Render(dst, bg, params); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Moving the panel restores the background where it used to be and
	// applies the effect at the new position.
	r.SetPanel(panel, Vec2{X: 144, Y: 48})
	if err := r.Render(dst, bg, params); err != nil {
		t.Fatalf("Render after move: %v", err)
	}
	if dst.GetPixel(48, 48) != bg.GetPixel(48, 48) {
		t.Error("old panel position not restored to background")
	}
	changed := false
	for x := 124; x < 164 && !changed; x++ {
		if dst.GetPixel(x, 48) != bg.GetPixel(x, 48) {
			changed = true
		}
	}
	if !changed {
		t.Error("no effect at the new panel position")
	}
}

func TestRenderSingleWorkerMatchesParallel(t *testing.T) {
	const w, h = 150, 110
	bg := gradientPixmap(w, h)
	params := DefaultParams()
	params.Blur = 3
	params.ChromaticAberration = 0.02
	center := Vec2{X: 75, Y: 55}
	panel := NewPanel(80, 50, 14)

	render := func(workers int) *Pixmap {
		r := NewRenderer(w, h, WithWorkers(workers), WithoutAccelerator())
		defer r.Close()
		r.SetPanel(panel, center)
		dst := NewPixmap(w, h)
		if err := r.Render(dst, bg, params); err != nil {
			t.Fatalf("Render with %d workers: %v", workers, err)
		}
		return dst
	}

	if !pixmapsEqual(render(1), render(4)) {
		t.Error("worker count changed the rendered output")
	}
}

func TestRenderOutputBounded(t *testing.T) {
	const w, h = 96, 96
	r := NewRenderer(w, h, WithoutAccelerator())
	defer r.Close()
	r.SetPanel(NewPanel(70, 70, 20), Vec2{X: 48, Y: 48})

	params := Params{
		IOR:                 MaxIOR,
		ChromaticAberration: MaxChromaticAberration,
		Displacement:        MaxDisplacement,
		Fresnel:             1,
		Blur:                MaxBlur,
		Tint:                RGBA{R: 0.3, G: 0.9, B: 1, A: 0.7},
		Enabled:             true,
	}

	bg := gradientPixmap(w, h)
	dst := NewPixmap(w, h)
	if err := r.Render(dst, bg, params); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := dst.GetPixel(x, y)
			for _, v := range []float64{c.R, c.G, c.B, c.A} {
				if math.IsNaN(v) || v < 0 || v > 1 {
					t.Fatalf("pixel (%d, %d) out of range: %+v", x, y, c)
				}
			}
		}
	}
}

func TestRendererClose(t *testing.T) {
	r := NewRenderer(32, 32)
	r.Close()
	r.Close() // idempotent
}
