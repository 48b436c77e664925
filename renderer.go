package glass

import (
	"errors"
	"math"

	"github.com/gogpu/glass/internal/parallel"
)

// Renderer errors.
var (
	// ErrSizeMismatch is returned when the destination and background
	// pixmaps don't match the renderer dimensions.
	ErrSizeMismatch = errors.New("glass: pixmap dimensions do not match renderer")
)

// footprintMargin pads the panel footprint when invalidating tiles and
// deciding which pixels go through the optical core, covering the
// antialiased silhouette fringe.
const footprintMargin = 2.0

// RendererOption configures a Renderer during creation.
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	workers  int
	useAccel bool
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		workers:  0, // GOMAXPROCS
		useAccel: true,
	}
}

// WithWorkers sets the number of evaluation goroutines.
// Zero or negative selects GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithoutAccelerator forces the CPU tile path even when a GPU
// accelerator is registered. Useful for tests and golden-image
// comparisons.
func WithoutAccelerator() RendererOption {
	return func(o *rendererOptions) {
		o.useAccel = false
	}
}

// Renderer composites the glass effect over a background pixmap, one
// frame at a time.
//
// The canvas is split into 64x64 tiles evaluated in parallel on a
// work-stealing pool. A dirty bitmap makes repeated frames cheap: only
// tiles whose content can have changed (panel moved, parameters changed,
// background invalidated) are re-evaluated.
//
// Renderer is not safe for concurrent use; drive it from one render
// goroutine and feed it parameters through a Settings.
type Renderer struct {
	width, height int

	pool  *parallel.WorkerPool
	tiles []parallel.Tile
	dirty *parallel.DirtyRegion

	panel    Panel
	center   Vec2
	hasPanel bool

	lastParams Params
	hasLast    bool

	useAccel bool
	closed   bool
}

// NewRenderer creates a renderer for a width x height canvas.
func NewRenderer(width, height int, opts ...RendererOption) *Renderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	tilesX, tilesY := parallel.GridDims(width, height)
	r := &Renderer{
		width:    width,
		height:   height,
		pool:     parallel.NewWorkerPool(o.workers),
		tiles:    parallel.SplitGrid(width, height),
		dirty:    parallel.NewDirtyRegion(tilesX, tilesY),
		useAccel: o.useAccel,
	}
	r.InvalidateAll()
	return r
}

// SetPanel positions the glass panel with its center at the given canvas
// coordinate. Tiles under both the previous and the new footprint are
// invalidated.
func (r *Renderer) SetPanel(panel Panel, center Vec2) {
	if r.hasPanel {
		r.invalidatePanel(r.panel, r.center)
	}
	r.panel = panel
	r.center = center
	r.hasPanel = true
	r.invalidatePanel(panel, center)
}

// InvalidateAll marks every tile for re-evaluation. Call it when the
// whole background changed.
func (r *Renderer) InvalidateAll() {
	if r.dirty != nil {
		r.dirty.MarkAll()
	}
}

// InvalidateRect marks the tiles under a canvas-space pixel rectangle.
// Call it when part of the background changed.
func (r *Renderer) InvalidateRect(x, y, w, h int) {
	if r.dirty != nil {
		r.dirty.MarkRect(x, y, w, h)
	}
}

// invalidatePanel marks the tiles under a panel footprint.
func (r *Renderer) invalidatePanel(panel Panel, center Vec2) {
	hs := panel.Half()
	x := int(math.Floor(center.X - hs.X - footprintMargin))
	y := int(math.Floor(center.Y - hs.Y - footprintMargin))
	w := int(math.Ceil(panel.W + 2*footprintMargin))
	h := int(math.Ceil(panel.H + 2*footprintMargin))
	r.dirty.MarkRect(x, y, w, h)
}

// Render composites one frame: the background content with the glass
// panel over it, written into dst. Both pixmaps must match the renderer
// dimensions. background must not be mutated until Render returns.
//
// params is snapshotted by value for the whole frame; a change from the
// previous frame invalidates every tile.
func (r *Renderer) Render(dst, background *Pixmap, params Params) error {
	if dst == nil || background == nil ||
		dst.Width() != r.width || dst.Height() != r.height ||
		background.Width() != r.width || background.Height() != r.height {
		return ErrSizeMismatch
	}

	if !r.hasLast || r.lastParams != params {
		r.InvalidateAll()
		r.lastParams = params
		r.hasLast = true
	}

	if r.dirty.Count() == 0 {
		return nil
	}

	if r.useAccel && params.Enabled && r.hasPanel {
		if a := GetAccelerator(); a != nil {
			target := RenderTarget{
				Data:   dst.Data(),
				Width:  r.width,
				Height: r.height,
				Stride: dst.Stride(),
			}
			frame := Frame{Panel: r.panel, Center: r.center, Params: params}
			err := a.Composite(target, background, frame)
			if err == nil {
				r.dirty.Clear()
				return nil
			}
			if !errors.Is(err, ErrFallbackToCPU) {
				Logger().Warn("glass: accelerator failed, using CPU",
					"accelerator", a.Name(), "error", err)
			}
		}
	}

	r.renderCPU(dst, background, params)
	return nil
}

// renderCPU evaluates the dirty tiles on the worker pool.
func (r *Renderer) renderCPU(dst, background *Pixmap, params Params) {
	var (
		hs      Vec2
		sampler Sampler
	)
	active := params.Enabled && r.hasPanel
	if active {
		hs = r.panel.Half()
		// The background under the panel, fully materialized for this
		// frame, addressed in normalized panel-relative coordinates.
		sampler = RegionSampler(background, r.center.X-hs.X, r.center.Y-hs.Y, r.panel.W, r.panel.H)
	}

	jobs := make([]func(), 0, r.dirty.Count())
	for _, t := range r.tiles {
		if !r.dirty.IsDirty(t.TX, t.TY) {
			continue
		}
		tile := t
		jobs = append(jobs, func() {
			r.renderTile(tile, dst, background, params, sampler, hs, active)
			r.dirty.ClearTile(tile.TX, tile.TY)
		})
	}
	r.pool.ExecuteAll(jobs)
}

// renderTile evaluates one tile. Pixels outside the panel footprint copy
// the background through; pixels under the panel go through the optical
// core.
func (r *Renderer) renderTile(t parallel.Tile, dst, background *Pixmap, params Params, sampler Sampler, hs Vec2, active bool) {
	for y := t.Y; y < t.Y+t.Height; y++ {
		for x := t.X; x < t.X+t.Width; x++ {
			if !active {
				dst.SetPixel(x, y, background.GetPixel(x, y))
				continue
			}

			// Pixel center relative to the panel center.
			px := float64(x) + 0.5 - r.center.X
			py := float64(y) + 0.5 - r.center.Y
			if math.Abs(px) > hs.X+footprintMargin || math.Abs(py) > hs.Y+footprintMargin {
				dst.SetPixel(x, y, background.GetPixel(x, y))
				continue
			}

			dst.SetPixel(x, y, Evaluate(Vec2{X: px, Y: py}, r.panel, params, sampler))
		}
	}
}

// Width returns the canvas width in pixels.
func (r *Renderer) Width() int { return r.width }

// Height returns the canvas height in pixels.
func (r *Renderer) Height() int { return r.height }

// Close shuts down the worker pool. The renderer must not be used after
// Close.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.pool.Close()
}
