package glass

import "math"

// Edge coverage transition bounds in signed-distance space, in pixels.
// The ~2px soft falloff antialiases the panel silhouette; it is not a
// hard cutoff.
const (
	edgeFadeInner = -1.5
	edgeFadeOuter = 0.5
)

// Panel describes the glass panel: a rounded rectangle that defines both
// the effect's boundary and the coordinate frame of the optical math.
// All per-pixel positions are taken relative to the rectangle center.
type Panel struct {
	// W, H are the panel dimensions in pixels. Both must be > 0.
	W, H float64

	// CornerRadius is the rounded-corner radius in pixels,
	// in [0, min(W,H)/2].
	CornerRadius float64
}

// NewPanel creates a panel with the corner radius clamped to the valid
// range for the given dimensions.
func NewPanel(w, h, cornerRadius float64) Panel {
	maxR := math.Min(w, h) / 2
	if cornerRadius < 0 {
		cornerRadius = 0
	} else if cornerRadius > maxR {
		cornerRadius = maxR
	}
	return Panel{W: w, H: h, CornerRadius: cornerRadius}
}

// Half returns the panel half-extents (W/2, H/2).
func (pl Panel) Half() Vec2 {
	return Vec2{X: pl.W / 2, Y: pl.H / 2}
}

// SDF computes the signed distance from a panel-local point to the
// rounded-rectangle boundary. Negative values are inside, positive
// values are outside.
func (pl Panel) SDF(p Vec2) float64 {
	hs := pl.Half()
	r := math.Min(pl.CornerRadius, math.Min(hs.X, hs.Y))

	// Use symmetry: work in the first quadrant relative to the inner
	// rectangle shrunk by the corner radius.
	qx := math.Abs(p.X) - hs.X + r
	qy := math.Abs(p.Y) - hs.Y + r

	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)

	return outside + inside - r
}

// EdgeCoverage converts a signed distance to an antialiased coverage
// value: ~1 inside the panel, 0 outside, with a smooth ~2px transition
// across the silhouette.
func (pl Panel) EdgeCoverage(d float64) float64 {
	return 1 - smoothstep(edgeFadeInner, edgeFadeOuter, d)
}

// smoothstep is the Hermite smoothstep between edges e0 and e1.
func smoothstep(e0, e1, x float64) float64 {
	t := (x - e0) / (e1 - e0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
