package glass

import "math"

// Parameter range bounds. Each slider is independent; the only
// cross-field constraint (the dispersed blue-channel index staying above
// 1) is clamped at use inside Evaluate.
const (
	MinIOR = 1.0
	MaxIOR = 2.0

	MaxChromaticAberration = 0.05
	MaxDisplacement        = 3.0
	MaxBlur                = 10.0
)

// Params holds the optical parameters for one frame of evaluation.
//
// Params is a plain value type: take a copy at the start of a frame and
// use that copy for every pixel. Live updates from another goroutine
// take effect on the next frame boundary, never mid-frame (see Settings).
type Params struct {
	// IOR is the index of refraction, in [1, 2].
	IOR float64

	// ChromaticAberration disperses the refraction index per color
	// channel, producing edge fringing. In [0, 0.05].
	ChromaticAberration float64

	// Displacement scales the refraction offset, in [0, 3].
	Displacement float64

	// Fresnel scales the cool-white rim brightening at the dome
	// silhouette, in [0, 1].
	Fresnel float64

	// Blur is the spiral blur spread in pixels, in [0, 10]. Below 0.5
	// the blur kernel is skipped entirely.
	Blur float64

	// Tint is a multiplicative tint; Tint.A blends it over the
	// composited color (0 leaves the color unchanged, 1 fully
	// multiplies).
	Tint RGBA

	// Enabled bypasses the optical core entirely when false: the
	// background passes through unmodified.
	Enabled bool
}

// DefaultParams returns the stock liquid-glass look.
func DefaultParams() Params {
	return Params{
		IOR:                 1.45,
		ChromaticAberration: 0,
		Displacement:        0.8,
		Fresnel:             0.25,
		Blur:                0,
		Tint:                RGBA{R: 1, G: 1, B: 1, A: 0},
		Enabled:             true,
	}
}

// Clamp returns a copy of p with every field forced into its documented
// range. The optical core assumes pre-validated inputs; hosts binding
// Params to user settings should clamp once per update.
func (p Params) Clamp() Params {
	p.IOR = clampF(p.IOR, MinIOR, MaxIOR)
	p.ChromaticAberration = clampF(p.ChromaticAberration, 0, MaxChromaticAberration)
	p.Displacement = clampF(p.Displacement, 0, MaxDisplacement)
	p.Fresnel = clampF(p.Fresnel, 0, 1)
	p.Blur = clampF(p.Blur, 0, MaxBlur)
	p.Tint.R = clampF(p.Tint.R, 0, 1)
	p.Tint.G = clampF(p.Tint.G, 0, 1)
	p.Tint.B = clampF(p.Tint.B, 0, 1)
	p.Tint.A = clampF(p.Tint.A, 0, 1)
	return p
}

// clampF restricts x to [lo, hi].
func clampF(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
