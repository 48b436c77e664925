// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glasscanvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/glass"
	"github.com/gogpu/gpucontext"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("glasscanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("glasscanvas: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("glasscanvas: nil DeviceProvider")

	// ErrNoBackground is returned when Flush is called before SetBackground.
	ErrNoBackground = errors.New("glasscanvas: no background set")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Canvas composites a glass panel over a background and uploads the
// result to a GPU texture for display in a gogpu window.
//
// Canvas is NOT safe for concurrent use. Create one Canvas per goroutine,
// or use external synchronization. Settings() is the exception: it may be
// driven from other goroutines.
type Canvas struct {
	renderer   *glass.Renderer
	settings   *glass.Settings
	background *glass.Pixmap
	frame      *glass.Pixmap

	provider    gpucontext.DeviceProvider
	texture     any  // Lazy-created texture (*gogpu.Texture)
	oldTexture  any  // Previous texture awaiting deferred destruction
	dirty       bool // Needs recomposite + GPU upload
	sizeChanged bool // Resize pending — texture must be recreated
	lastGen     uint64
	width       int
	height      int
	closed      bool
}

// New creates a Canvas for integrated mode.
// The provider should come from gogpu.App.GPUContextProvider().
//
// The glass parameters start at glass.DefaultParams(). Use Settings() to
// adjust them and SetPanel to position the glass.
//
// Returns error if dimensions are invalid or provider is nil.
func New(provider gpucontext.DeviceProvider, width, height int) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	return &Canvas{
		renderer: glass.NewRenderer(width, height),
		settings: glass.NewSettings(glass.DefaultParams()),
		frame:    glass.NewPixmap(width, height),
		provider: provider,
		width:    width,
		height:   height,
		dirty:    true, // Mark dirty so first Flush creates texture
	}, nil
}

// MustNew is like New but panics on error.
// Use only when errors are programming mistakes (e.g., hardcoded dimensions).
func MustNew(provider gpucontext.DeviceProvider, width, height int) *Canvas {
	c, err := New(provider, width, height)
	if err != nil {
		panic(err)
	}
	return c
}

// Settings returns the parameter store driving the glass optics.
// It is safe to call Set on it from any goroutine; the next Flush picks
// up the change.
//
// Returns nil if the canvas is closed.
func (c *Canvas) Settings() *glass.Settings {
	if c.closed {
		return nil
	}
	return c.settings
}

// SetPanel positions the glass panel on the canvas.
func (c *Canvas) SetPanel(panel glass.Panel, center glass.Vec2) {
	if c.closed {
		return
	}
	c.renderer.SetPanel(panel, center)
	c.dirty = true
}

// SetBackground supplies the content seen through the glass. The image
// is resampled to the canvas size when dimensions differ.
func (c *Canvas) SetBackground(img image.Image) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if img == nil {
		return ErrNoBackground
	}
	b := img.Bounds()
	if pm, ok := img.(*glass.Pixmap); ok && b.Dx() == c.width && b.Dy() == c.height {
		c.background = pm
	} else {
		c.background = glass.Snapshot(img, c.width, c.height)
	}
	c.renderer.InvalidateAll()
	c.dirty = true
	return nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Size returns width and height as a convenience.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// MarkDirty flags the canvas for recomposite and GPU upload on next
// Flush(). Call this after mutating the background pixmap in place.
func (c *Canvas) MarkDirty() {
	c.dirty = true
	if c.renderer != nil {
		c.renderer.InvalidateAll()
	}
}

// IsDirty returns true if the canvas has pending changes
// that need to be uploaded to the GPU.
func (c *Canvas) IsDirty() bool {
	if c.closed {
		return false
	}
	_, gen := c.settings.Snapshot()
	return c.dirty || gen != c.lastGen
}

// Resize changes canvas dimensions.
// This recreates internal buffers; the background must be set again if
// its dimensions no longer match.
//
// Returns error if dimensions are invalid or canvas is closed.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	// No-op if dimensions haven't changed
	if c.width == width && c.height == height {
		return nil
	}

	old := c.renderer
	c.renderer = glass.NewRenderer(width, height)
	old.Close()

	if c.background != nil {
		c.background = glass.Snapshot(c.background, width, height)
	}
	c.frame = glass.NewPixmap(width, height)
	c.width = width
	c.height = height
	c.sizeChanged = true
	c.dirty = true

	return nil
}

// Flush recomposites the glass frame if dirty and uploads it to the GPU
// texture. Returns the texture for manual drawing if needed.
//
// The texture is created lazily on first Flush().
// Subsequent calls only recomposite when the background, panel, or
// settings changed since the last Flush.
//
// Returns error if compositing or texture update fails, or if canvas is
// closed.
func (c *Canvas) Flush() (any, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	if c.background == nil {
		return nil, ErrNoBackground
	}

	// If size changed, defer old texture destruction until after GPU is idle.
	// The old texture may still be referenced by in-flight GPU command
	// buffers. Destroying it now would free descriptor heap entries that the
	// GPU is reading, causing it to sample zeros (transparent). Instead, keep
	// it alive and destroy it in RenderToEx after WriteTexture (which calls
	// waitForGPU internally).
	if c.sizeChanged {
		if c.texture != nil {
			// Destroy any previously deferred texture first
			if c.oldTexture != nil {
				if destroyer, ok := c.oldTexture.(textureDestroyer); ok {
					destroyer.Destroy()
				}
			}
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	params, gen := c.settings.Snapshot()
	recomposite := c.dirty || gen != c.lastGen

	// Skip if nothing changed and the texture exists
	if !recomposite && c.texture != nil {
		return c.texture, nil
	}

	if recomposite {
		if err := c.renderer.Render(c.frame, c.background, params); err != nil {
			return nil, fmt.Errorf("glasscanvas: composite failed: %w", err)
		}
		c.lastGen = gen
	}

	data := c.frame.Data()

	// Create texture if needed (lazy initialization)
	if c.texture == nil {
		c.texture = c.createTexture(data)
		c.dirty = false
		return c.texture, nil
	}

	// Update existing texture
	if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return nil, fmt.Errorf("glasscanvas: texture update failed: %w", err)
		}
	}

	c.dirty = false
	return c.texture, nil
}

// Texture returns the current GPU texture without flushing.
// Returns nil if texture hasn't been created yet.
//
// Use Flush() to ensure the texture exists and is up-to-date.
func (c *Canvas) Texture() any {
	return c.texture
}

// Frame returns the last composited frame pixmap.
// The contents are only valid after a successful Flush.
func (c *Canvas) Frame() *glass.Pixmap {
	if c.closed {
		return nil
	}
	return c.frame
}

// Close releases all resources associated with the Canvas.
// After Close, the Canvas should not be used.
// Close is idempotent - multiple calls are safe.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	// Destroy textures (current and any deferred old texture)
	if c.oldTexture != nil {
		if destroyer, ok := c.oldTexture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		c.oldTexture = nil
	}
	if c.texture != nil {
		if destroyer, ok := c.texture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		c.texture = nil
	}

	if c.renderer != nil {
		c.renderer.Close()
		c.renderer = nil
	}

	c.background = nil
	c.frame = nil
	c.provider = nil
	return nil
}

// createTexture creates a pending texture placeholder from pixel data.
// This is called lazily on first Flush().
// The actual GPU texture is created during RenderTo when a renderer is
// available.
func (c *Canvas) createTexture(data []byte) *pendingTexture {
	// Texture creation needs a gpucontext.TextureCreator, which only the
	// draw context exposes. Store the data and create the real texture
	// on-demand in RenderToEx.
	return &pendingTexture{
		width:  c.width,
		height: c.height,
		data:   data,
	}
}

// pendingTexture is a placeholder for texture creation.
// It holds the data needed to create a real texture when we have
// access to a textureCreator (during RenderTo).
type pendingTexture struct {
	width  int
	height int
	data   []byte
}

// Provider returns the DeviceProvider associated with this canvas.
// Returns nil if the canvas is closed.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}
