package glass

import "math"

// Compositing constants.
const (
	// displacementBase ties the refraction offset to panel size so the
	// effect reads consistently across aspect ratios.
	displacementBase = 0.1

	// goldenAngle in radians. Successive blur taps rotated by it are
	// maximally angularly decorrelated, which avoids the banding a
	// uniform-angle spiral shows at low tap counts.
	goldenAngle = 2.39996323

	// blurTaps is the spiral sample count. Twelve taps approximate a
	// Gaussian-like kernel well enough visually at interactive rates.
	blurTaps = 12

	// blurBypass is the radius below which the spiral is skipped and a
	// single direct sample is returned.
	blurBypass = 0.5

	// microLift is a subtle uniform brightening, strongest over the
	// flat dome interior, that breaks up flatness.
	microLift = 0.012
)

// viewRay is the orthographic incident ray, looking straight into the
// screen. No perspective.
var viewRay = Vec3{Z: -1}

// Evaluate computes the final color of one pixel of the glass panel.
//
// p is the pixel position relative to the panel center. bg supplies the
// fully materialized background for the current frame, addressed in
// normalized panel-relative coordinates with clamp-to-edge semantics.
//
// Evaluate is a pure function: it is safe to call concurrently for every
// pixel of a frame, in any order, as long as params and bg are stable
// for the duration of the frame. Output is always finite with alpha 1.
func Evaluate(p Vec2, panel Panel, params Params, bg Sampler) RGBA {
	hs := panel.Half()
	invRes := Vec2{X: 1 / panel.W, Y: 1 / panel.H}
	uv := Vec2{X: (p.X + hs.X) * invRes.X, Y: (p.Y + hs.Y) * invRes.Y}

	if !params.Enabled {
		c := bg(uv.X, uv.Y)
		c.A = 1
		return c
	}

	d := panel.SDF(p)
	edge := panel.EdgeCoverage(d)
	if edge <= 0 {
		// Strictly outside the antialiased boundary: the background
		// passes through untouched no matter how extreme the optical
		// parameters are.
		c := bg(uv.X, uv.Y)
		c.A = 1
		return c
	}

	surf := DomeAt(p, panel)
	n := surf.Normal

	// Green-channel refraction; on total internal reflection fall back
	// to the unrefracted view ray rather than a degenerate vector.
	rG, ok := refract(viewRay, n, 1/params.IOR)
	if !ok {
		rG = viewRay
	}

	// Displacement magnitude scales with the panel diagonal, applied
	// per axis in normalized coordinates.
	scale := math.Hypot(panel.W, panel.H) * displacementBase * params.Displacement
	uvG := Vec2{
		X: uv.X + rG.X*scale*invRes.X,
		Y: uv.Y + rG.Y*scale*invRes.Y,
	}

	var col RGBA
	if params.ChromaticAberration > caThreshold {
		// Disperse the refraction index per channel. The blue index is
		// clamped so its eta stays defined.
		iorR := params.IOR + params.ChromaticAberration*dispersionScale
		iorB := math.Max(params.IOR-params.ChromaticAberration*dispersionScale, minChannelIOR)

		rR, okR := refract(viewRay, n, 1/iorR)
		if !okR {
			rR = rG
		}
		rB, okB := refract(viewRay, n, 1/iorB)
		if !okB {
			rB = rG
		}

		uvR := Vec2{X: uv.X + rR.X*scale*invRes.X, Y: uv.Y + rR.Y*scale*invRes.Y}
		uvB := Vec2{X: uv.X + rB.X*scale*invRes.X, Y: uv.Y + rB.Y*scale*invRes.Y}

		cR := tap(bg, uvR, invRes, params.Blur)
		cG := tap(bg, uvG, invRes, params.Blur)
		cB := tap(bg, uvB, invRes, params.Blur)
		col = RGBA{R: cR.R, G: cG.G, B: cB.B, A: 1}
	} else {
		col = tap(bg, uvG, invRes, params.Blur)
	}

	// Cool-white Fresnel rim, strongest at the silhouette.
	f := fresnelTerm(n, params.Fresnel)
	col.R += f * 0.85
	col.G += f * 0.90
	col.B += f * 1.00

	// Tight specular highlight from the fixed key light.
	s := specularTerm(n)
	col.R += s * 1.00
	col.G += s * 0.98
	col.B += s * 0.95

	// Multiplicative tint, alpha-blended over the composited color.
	ta := params.Tint.A
	col.R += (col.R*params.Tint.R - col.R) * ta
	col.G += (col.G*params.Tint.G - col.G) * ta
	col.B += (col.B*params.Tint.B - col.B) * ta

	// Interior micro-brightening.
	lift := (1 - surf.Height) * microLift
	col.R += lift
	col.G += lift
	col.B += lift

	// The edge mask is applied last, after all optical computation, so
	// refraction never leaks outside the glass shape.
	bgc := bg(uv.X, uv.Y)
	return RGBA{
		R: bgc.R + (col.R-bgc.R)*edge,
		G: bgc.G + (col.G-bgc.G)*edge,
		B: bgc.B + (col.B-bgc.B)*edge,
		A: 1,
	}
}

// tap samples the background at uv through the spiral blur kernel.
//
// The coordinate is clamped to [invRes, 1-invRes] per axis so the kernel
// never reads outside the valid texture range. Below the bypass radius a
// single direct sample is returned; otherwise twelve samples on a
// golden-angle spiral are averaged.
func tap(bg Sampler, uv, invRes Vec2, blur float64) RGBA {
	u := clampF(uv.X, invRes.X, 1-invRes.X)
	v := clampF(uv.Y, invRes.Y, 1-invRes.Y)

	if blur < blurBypass {
		return bg(u, v)
	}

	var r, g, b float64
	for i := 0; i < blurTaps; i++ {
		rad := math.Sqrt((float64(i)+0.5)/blurTaps) * blur
		ang := float64(i) * goldenAngle
		c := bg(u+math.Cos(ang)*rad*invRes.X, v+math.Sin(ang)*rad*invRes.Y)
		r += c.R
		g += c.G
		b += c.B
	}
	inv := 1.0 / blurTaps
	return RGBA{R: r * inv, G: g * inv, B: b * inv, A: 1}
}
