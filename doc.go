// Package glass renders a real-time "liquid glass" lensing effect over
// arbitrary background pixel content.
//
// # Overview
//
// glass is a Pure Go optical effect library for the GoGPU ecosystem.
// It models a convex refractive dome over a rounded-rectangle panel:
// whatever is behind the panel is optically bent (Snell refraction,
// optionally dispersed per color channel), blurred through a golden-angle
// spiral kernel, and composited with Fresnel edge glow, a specular
// highlight and a multiplicative tint. The effect is a single-bounce,
// screen-space approximation tuned for interactive rates, not a
// volumetric glass simulation.
//
// # Quick Start
//
//	import "github.com/gogpu/glass"
//
//	// Describe the panel and the look
//	panel := glass.NewPanel(400, 200, 12)
//	params := glass.DefaultParams()
//
//	// Evaluate a single pixel (panel-local coordinates, origin at center)
//	c := glass.Evaluate(glass.V2(0, 0), panel, params, glass.Uniform(glass.RGB(0.5, 0.5, 0.5)))
//
//	// Or render whole frames over a background pixmap
//	r := glass.NewRenderer(800, 600)
//	defer r.Close()
//	r.SetPanel(panel, glass.V2(400, 300))
//	r.Render(dst, background, params)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Panel, Params, Surface, Evaluate, Sampler, Renderer
//   - Internal: parallel (worker pool, tile grid, dirty tracking)
//   - Backends: CPU tile renderer (default), wgpu compute path
//     (internal/gpu, registered by blank-importing the gpu package)
//   - Integration: glasscanvas (gpucontext texture upload)
//
// The per-pixel evaluation is a pure function with no shared mutable
// state; pixels may be evaluated in any order or concurrently. The only
// inputs are an immutable parameter snapshot and a fully materialized
// background sampler for the current frame.
package glass
