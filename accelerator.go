package glass

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot handle this frame.
// The caller should transparently fall back to CPU evaluation.
var ErrFallbackToCPU = errors.New("glass: falling back to CPU rendering")

// Frame describes one frame of glass compositing for an accelerator:
// the panel, its center position on the canvas, and the immutable
// parameter snapshot for the frame.
type Frame struct {
	Panel  Panel
	Center Vec2
	Params Params
}

// RenderTarget provides pixel buffer access for accelerator output.
// The Data slice must be in RGBA format, 4 bytes per pixel, laid out row
// by row with the given Stride.
type RenderTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row
}

// Accelerator is an optional GPU compositing provider.
//
// When registered via RegisterAccelerator, the Renderer tries GPU
// compositing first. If the accelerator returns ErrFallbackToCPU or any
// error, rendering transparently falls back to the CPU tile path.
//
// Implementations are provided by backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/glass/gpu" // enables GPU compositing
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// Composite renders the glass frame over the background into the
	// target. Returns ErrFallbackToCPU if the frame cannot be
	// GPU-composited.
	Composite(target RenderTarget, background *Pixmap, frame Frame) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers a GPU accelerator for optional GPU
// compositing.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration. If Init() fails, the accelerator is not registered and
// the error is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("glass: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	propagateLogger(a, Logger())
	return nil
}

// GetAccelerator returns the currently registered accelerator, or nil.
func GetAccelerator() Accelerator {
	accelMu.RLock()
	defer accelMu.RUnlock()
	return accel
}

// UnregisterAccelerator removes and closes the current accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}
