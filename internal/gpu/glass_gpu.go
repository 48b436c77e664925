//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/glass"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// GlassAccelerator composites glass frames on the GPU using a wgpu/hal
// compute shader. It implements the glass.Accelerator interface.
//
// Each Composite call uploads the background once, runs a single full
// canvas dispatch, and reads the result back. When GPU initialization
// fails, every call returns glass.ErrFallbackToCPU so the renderer uses
// the CPU tile path instead.
type GlassAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	log      *slog.Logger
	gpuReady bool
}

var _ glass.Accelerator = (*GlassAccelerator)(nil)

// glassUniforms matches the Uniforms struct in shaders/glass.wgsl.
type glassUniforms struct {
	CanvasW, CanvasH float32
	CenterX, CenterY float32
	PanelW, PanelH   float32
	CornerRadius     float32
	IOR              float32
	CA               float32
	Displacement     float32
	Fresnel          float32
	Blur             float32
	TintR            float32
	TintG            float32
	TintB            float32
	TintA            float32
}

func (a *GlassAccelerator) Name() string { return "wgpu" }

// SetLogger sets the logger used for GPU diagnostics.
func (a *GlassAccelerator) SetLogger(l *slog.Logger) {
	a.mu.Lock()
	a.log = l
	a.mu.Unlock()
}

func (a *GlassAccelerator) logger() *slog.Logger {
	if a.log != nil {
		return a.log
	}
	return glass.Logger()
}

func (a *GlassAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		a.logger().Warn("GPU init failed, using CPU fallback", "error", err)
	}
	return nil
}

func (a *GlassAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if a.device != nil {
		a.device.Destroy()
		a.device = nil
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
}

// Composite renders the glass frame over the background into the target.
func (a *GlassAccelerator) Composite(target glass.RenderTarget, background *glass.Pixmap, frame glass.Frame) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return glass.ErrFallbackToCPU
	}
	if background == nil ||
		background.Width() != target.Width || background.Height() != target.Height {
		return glass.ErrFallbackToCPU
	}
	return a.dispatch(target, background, frame)
}

func (a *GlassAccelerator) dispatch(target glass.RenderTarget, background *glass.Pixmap, frame glass.Frame) error {
	w, h := uint32(target.Width), uint32(target.Height) //nolint:gosec // dimensions always fit uint32
	pixelBufSize := uint64(w * h * 4)

	params := frame.Params.Clamp()
	uniforms := glassUniforms{
		CanvasW: float32(w), CanvasH: float32(h),
		CenterX: float32(frame.Center.X), CenterY: float32(frame.Center.Y),
		PanelW: float32(frame.Panel.W), PanelH: float32(frame.Panel.H),
		CornerRadius: float32(frame.Panel.CornerRadius),
		IOR:          float32(params.IOR),
		CA:           float32(params.ChromaticAberration),
		Displacement: float32(params.Displacement),
		Fresnel:      float32(params.Fresnel),
		Blur:         float32(params.Blur),
		TintR:        float32(params.Tint.R), TintG: float32(params.Tint.G),
		TintB: float32(params.Tint.B), TintA: float32(params.Tint.A),
	}
	uniformBytes := structToBytes(unsafe.Pointer(&uniforms), unsafe.Sizeof(uniforms)) //nolint:gosec // safe struct access
	uniformSize := uint64(len(uniformBytes))

	uniformBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glass_uniforms", Size: uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer a.device.DestroyBuffer(uniformBuf)

	backgroundBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glass_background", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create background buffer: %w", err)
	}
	defer a.device.DestroyBuffer(backgroundBuf)

	storageBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glass_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer a.device.DestroyBuffer(storageBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glass_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(uniformBuf, 0, uniformBytes)
	a.queue.WriteBuffer(backgroundBuf, 0, packPixelsForGPU(background.Data(), int(w*h)))

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "glass_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: backgroundBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "glass_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("glass_composite"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "glass_pass"})
	computePass.SetPipeline(a.pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.Dispatch((w+7)/8, (h+7)/8, 1)
	computePass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackPixelsToTarget(readback, target)
	return nil
}

func (a *GlassAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *GlassAccelerator) createPipelines() error {
	spirv, err := compileToSPIRV(glassShaderSource)
	if err != nil {
		return fmt.Errorf("compile glass shader: %w", err)
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glass",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create glass shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glass_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "glass_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "glass_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "cs_glass"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline

	return nil
}

func (a *GlassAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
	}
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size) //nolint:gosec // safe struct serialization
}

func packPixelsForGPU(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		srcIdx := i * 4
		r := uint32(data[srcIdx+0])
		g := uint32(data[srcIdx+1])
		b := uint32(data[srcIdx+2])
		a := uint32(data[srcIdx+3])
		packed := r | (g << 8) | (b << 16) | (a << 24)
		binary.LittleEndian.PutUint32(out[i*4:], packed)
	}
	return out
}

// unpackPixelsToTarget writes the tightly packed GPU readback into the
// target buffer, honoring its row stride.
func unpackPixelsToTarget(packed []byte, target glass.RenderTarget) {
	for y := 0; y < target.Height; y++ {
		row := target.Data[y*target.Stride:]
		for x := 0; x < target.Width; x++ {
			val := binary.LittleEndian.Uint32(packed[(y*target.Width+x)*4:])
			i := x * 4
			row[i+0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
			row[i+1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
			row[i+2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
			row[i+3] = uint8((val >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
		}
	}
}
