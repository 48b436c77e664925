package glass

import (
	"math"
	"testing"
)

func TestNewPanelClampsCornerRadius(t *testing.T) {
	tests := []struct {
		name    string
		w, h, r float64
		want    float64
	}{
		{"in range", 200, 100, 20, 20},
		{"negative", 200, 100, -5, 0},
		{"too large", 200, 100, 90, 50},
		{"exactly half", 200, 100, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPanel(tt.w, tt.h, tt.r)
			if p.CornerRadius != tt.want {
				t.Errorf("CornerRadius = %v, want %v", p.CornerRadius, tt.want)
			}
		})
	}
}

func TestPanelSDF(t *testing.T) {
	// 200x100 panel with 20px corners, centered at origin.
	p := NewPanel(200, 100, 20)

	tests := []struct {
		name string
		pt   Vec2
		want float64
		tol  float64
	}{
		// Center: distance to the nearest edge (50 to top/bottom).
		{"center", V2(0, 0), -50, 1e-9},
		// On the right edge midline.
		{"right edge", V2(100, 0), 0, 1e-9},
		// Outside the right edge.
		{"outside right", V2(110, 0), 10, 1e-9},
		// Corner circle center is at (80, 30); the corner arc passes
		// through points at distance 20 from it.
		{"on corner arc", V2(80+20/math.Sqrt2, 30+20/math.Sqrt2), 0, 1e-9},
		// Beyond the corner diagonally.
		{"outside corner", V2(80+30/math.Sqrt2, 30+30/math.Sqrt2), 10, 1e-9},
		// Symmetry: all four corners agree.
		{"mirrored corner", V2(-80-30/math.Sqrt2, -30-30/math.Sqrt2), 10, 1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.SDF(tt.pt)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("SDF(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestPanelSDFSharpCorners(t *testing.T) {
	p := NewPanel(100, 100, 0)
	if got := p.SDF(V2(50, 50)); math.Abs(got) > 1e-9 {
		t.Errorf("SDF at sharp corner = %v, want 0", got)
	}
	if got := p.SDF(V2(0, 0)); math.Abs(got+50) > 1e-9 {
		t.Errorf("SDF at center = %v, want -50", got)
	}
}

func TestEdgeCoverage(t *testing.T) {
	p := NewPanel(100, 100, 10)

	tests := []struct {
		name string
		d    float64
		want float64
		tol  float64
	}{
		{"deep inside", -30, 1, 1e-12},
		{"transition start", -1.5, 1, 1e-12},
		{"transition end", 0.5, 0, 1e-12},
		{"far outside", 5, 0, 1e-12},
		{"transition midpoint", -0.5, 0.5, 1e-12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.EdgeCoverage(tt.d)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("EdgeCoverage(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestEdgeCoverageMonotonic(t *testing.T) {
	p := NewPanel(100, 100, 10)
	prev := math.Inf(1)
	for d := -3.0; d <= 3.0; d += 0.05 {
		c := p.EdgeCoverage(d)
		if c < 0 || c > 1 {
			t.Fatalf("EdgeCoverage(%v) = %v, out of [0, 1]", d, c)
		}
		if c > prev+1e-12 {
			t.Fatalf("EdgeCoverage not monotonic at d=%v: %v > %v", d, c, prev)
		}
		prev = c
	}
}
