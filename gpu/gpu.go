//go:build !nogpu

// Package gpu registers the GPU accelerator for hardware-accelerated
// glass compositing.
//
// Import this package to composite glass panels with a wgpu/hal compute
// shader instead of the CPU tile pipeline.
//
// If GPU initialization fails (no Vulkan available), the registration is
// silently skipped and rendering falls back to CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/glass/gpu" // enable GPU compositing
package gpu

import (
	"github.com/gogpu/glass"
	gpuimpl "github.com/gogpu/glass/internal/gpu"
)

func init() {
	accel := &gpuimpl.GlassAccelerator{}
	if err := glass.RegisterAccelerator(accel); err != nil {
		glass.Logger().Warn("GPU accelerator not available", "err", err)
	}
}
