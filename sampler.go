package glass

import "math"

// Sampler answers "what is visually behind the glass right now" at a
// normalized panel-relative coordinate. Implementations must behave as
// clamp-to-edge: any u, v outside [0, 1] reads the nearest edge texel,
// never wraps, never fails.
//
// The sampler must be a complete, immutable snapshot of the background
// for the current frame before any pixel evaluation begins. The optical
// core only calls it; it never mutates or caches it.
type Sampler func(u, v float64) RGBA

// Uniform returns a sampler producing a single flat color everywhere.
func Uniform(c RGBA) Sampler {
	return func(u, v float64) RGBA {
		return c
	}
}

// PixmapSampler samples a pixmap bilinearly at normalized coordinates
// with clamp-to-edge addressing. (0,0) is the top-left, (1,1) the
// bottom-right of the pixmap.
func PixmapSampler(pm *Pixmap) Sampler {
	w, h := pm.Width(), pm.Height()
	return func(u, v float64) RGBA {
		return sampleBilinear(pm, u*float64(w)-0.5, v*float64(h)-0.5, w, h)
	}
}

// RegionSampler samples the axis-aligned region of pm whose top-left
// corner is at (x, y) with the given size, in pixmap pixels. The region
// is addressed in normalized coordinates; reads are clamped to the
// pixmap, not the region, so a panel hanging off the canvas edge sees
// edge texels rather than garbage.
//
// This is how a Renderer exposes "the pixels under the panel" to the
// optical core.
func RegionSampler(pm *Pixmap, x, y, w, h float64) Sampler {
	pw, ph := pm.Width(), pm.Height()
	return func(u, v float64) RGBA {
		return sampleBilinear(pm, x+u*w-0.5, y+v*h-0.5, pw, ph)
	}
}

// sampleBilinear interpolates the 4 pixels around continuous pixel
// coordinate (fx, fy), clamping each corner to the buffer bounds.
func sampleBilinear(pm *Pixmap, fx, fy float64, w, h int) RGBA {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clampI(x0+1, 0, w-1)
	y1 := clampI(y0+1, 0, h-1)
	x0 = clampI(x0, 0, w-1)
	y0 = clampI(y0, 0, h-1)

	c00 := pm.GetPixel(x0, y0)
	c10 := pm.GetPixel(x1, y0)
	c01 := pm.GetPixel(x0, y1)
	c11 := pm.GetPixel(x1, y1)

	top := c00.Lerp(c10, tx)
	bot := c01.Lerp(c11, tx)
	return top.Lerp(bot, ty)
}

// clampI restricts x to [lo, hi].
func clampI(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
