// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glasscanvas provides seamless integration between glass
// compositing and gogpu GPU-accelerated windows.
//
// This package composites a refractive glass panel over a background and
// manages the CPU-to-GPU texture pipeline automatically. The data flow is:
//
//	Background + Params -> glass.Renderer -> Pixmap (CPU) -> GPU Texture -> Window
//
// # Architecture
//
// Canvas wraps a glass.Renderer and manages the texture upload pipeline:
//
//   - SetBackground supplies the content seen through the glass
//   - SetPanel and Settings drive the glass geometry and optics
//   - Flush() re-composites if anything changed and uploads to GPU
//   - RenderTo() draws the texture to a gogpu window
//
// # Usage
//
// Basic usage with gogpu:
//
//	canvas, err := glasscanvas.New(app.GPUContextProvider(), 800, 600)
//	if err != nil { ... }
//	defer canvas.Close()
//
//	canvas.SetBackground(bg)
//	canvas.SetPanel(glass.NewPanel(320, 200, 28), glass.V2(400, 300))
//	canvas.Settings().Set(glass.DefaultParams())
//
//	// Render to gogpu window
//	canvas.RenderTo(dc)
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. The Settings accessor is the one
// exception: glass.Settings may be written from any goroutine (an input
// handler, an animation ticker) and the next Flush picks up the change.
//
// # Performance Notes
//
//   - Texture is created lazily on first Flush()
//   - Settings generation tracking avoids recompositing unchanged frames
//   - The renderer only re-evaluates tiles the panel touches
//
// # Integration Without Circular Imports
//
// This package uses interfaces to avoid importing gogpu directly:
//
//   - gpucontext.DeviceProvider for device access
//   - gpucontext.TextureDrawer and TextureCreator for the upload path
//
// This allows glass to provide integration without creating circular
// dependencies.
package glasscanvas
