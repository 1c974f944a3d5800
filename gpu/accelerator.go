//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xfade"
	"github.com/gogpu/xfade/cache"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoAccelerator indicates no wgpu accelerator is registered.
var ErrNoAccelerator = errors.New("xfade/gpu: no wgpu accelerator registered")

// WGPUAccelerator composites transitions on the GPU via wgpu/hal compute
// shaders. Each transition's WGSL body is wrapped in the shared compute
// frame, compiled to SPIR-V with naga and cached as a ready pipeline, so a
// transition pays the compile cost once per process.
//
// It implements the xfade.Accelerator interface.
type WGPUAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	pipelines *cache.Sharded[string, *transitionPipeline]

	gpuReady       bool
	externalDevice bool // shared device: don't destroy on Close
}

// transitionPipeline is one compiled transition: its shader module, layouts
// and compute pipeline, all owned by the accelerator's device.
type transitionPipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// frameParams mirrors the Params uniform struct of the WGSL prelude.
// Field order and padding must match exactly.
type frameParams struct {
	Width    uint32
	Height   uint32
	Progress float32
	Aspect   float32
	Softness float32
	FillR    float32
	FillG    float32
	FillB    float32
	FillA    float32
	_        float32
	_        float32
	_        float32
}

var _ xfade.Accelerator = (*WGPUAccelerator)(nil)

func (a *WGPUAccelerator) Name() string { return "wgpu" }

// Init brings up the GPU. A failed init is not an error: the accelerator
// stays registered but reports CanAccelerate false and the driver renders
// on the CPU.
func (a *WGPUAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pipelines = cache.NewSharded[string, *transitionPipeline](0, cache.StringHasher)
	if err := a.initGPU(); err != nil {
		xfade.Logger().Warn("xfade/gpu: GPU init failed, software compositing only", "err", err)
	}
	return nil
}

// Close destroys all cached pipelines and, unless the device is shared, the
// device and instance.
func (a *WGPUAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// CanAccelerate reports whether the GPU is ready. Per-transition support is
// decided in RenderTransition, where a missing shader source falls back.
func (a *WGPUAccelerator) CanAccelerate(string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// SetDeviceProvider switches the accelerator to a shared GPU device. The
// provider must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue (e.g., a gpucontext.DeviceProvider that also
// implements gpucontext.HalProvider).
func (a *WGPUAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("xfade/gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("xfade/gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("xfade/gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true
	a.gpuReady = true
	xfade.Logger().Info("xfade/gpu: switched to shared GPU device")
	return nil
}

// RenderTransition composites one frame on the GPU. Both samplers must be
// engine textures (raw pixel access is required for the upload); anything
// else falls back to the CPU.
func (a *WGPUAccelerator) RenderTransition(target xfade.RenderTarget, fr *xfade.Frame, def *xfade.Definition) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return xfade.ErrFallbackToCPU
	}
	if def.Source == "" {
		return xfade.ErrFallbackToCPU
	}
	fromTex, ok := fr.From.(*xfade.Texture)
	if !ok {
		return xfade.ErrFallbackToCPU
	}
	toTex, ok := fr.To.(*xfade.Texture)
	if !ok {
		return xfade.ErrFallbackToCPU
	}
	if fromTex.Width() != target.Width || fromTex.Height() != target.Height ||
		toTex.Width() != target.Width || toTex.Height() != target.Height {
		return xfade.ErrFallbackToCPU
	}

	tp, err := a.pipelines.GetOrCreate(def.ID, func() (*transitionPipeline, error) {
		return a.compilePipeline(def)
	})
	if err != nil {
		return fmt.Errorf("xfade/gpu: pipeline for %q: %w", def.ID, err)
	}
	return a.dispatch(tp, target, fr, fromTex.Pixels(), toTex.Pixels())
}

func (a *WGPUAccelerator) initGPU() error {
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
	a.gpuReady = true
	xfade.Logger().Info("xfade/gpu: GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

// compilePipeline wraps the transition body in the compute frame, compiles
// it to SPIR-V and builds the pipeline. Called with a.mu held, under the
// pipeline cache's shard lock.
func (a *WGPUAccelerator) compilePipeline(def *xfade.Definition) (*transitionPipeline, error) {
	wgsl := xfade.WrapShader(def.Source)
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile WGSL: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}

	tp := &transitionPipeline{}
	tp.shader, err = a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "xfade_" + def.ID,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}

	tp.bindLayout, err = a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "xfade_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		a.destroyPipeline(tp)
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	tp.pipeLayout, err = a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "xfade_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{tp.bindLayout},
	})
	if err != nil {
		a.destroyPipeline(tp)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	tp.pipeline, err = a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "xfade_" + def.ID, Layout: tp.pipeLayout,
		Compute: hal.ComputeState{Module: tp.shader, EntryPoint: "main"},
	})
	if err != nil {
		a.destroyPipeline(tp)
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}
	return tp, nil
}

// dispatch uploads both sources, runs the compute pass and reads the result
// back into the target.
func (a *WGPUAccelerator) dispatch(tp *transitionPipeline, target xfade.RenderTarget, fr *xfade.Frame, fromPix, toPix []uint8) error {
	w, h := uint32(target.Width), uint32(target.Height)
	pixelBufSize := uint64(w) * uint64(h) * 4

	params := frameParams{
		Width:    w,
		Height:   h,
		Progress: float32(fr.Progress),
		Aspect:   float32(fr.Aspect),
		Softness: float32(fr.Softness),
		FillR:    float32(fr.Fill.R),
		FillG:    float32(fr.Fill.G),
		FillB:    float32(fr.Fill.B),
		FillA:    float32(fr.Fill.A),
	}
	paramSize := uint64(unsafe.Sizeof(params))
	paramBytes := unsafe.Slice((*byte)(unsafe.Pointer(&params)), paramSize)

	uniformBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "xfade_params", Size: paramSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer a.device.DestroyBuffer(uniformBuf)

	fromBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "xfade_from", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create from buffer: %w", err)
	}
	defer a.device.DestroyBuffer(fromBuf)

	toBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "xfade_to", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create to buffer: %w", err)
	}
	defer a.device.DestroyBuffer(toBuf)

	outBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "xfade_out", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create out buffer: %w", err)
	}
	defer a.device.DestroyBuffer(outBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "xfade_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(uniformBuf, 0, paramBytes)
	a.queue.WriteBuffer(fromBuf, 0, fromPix)
	a.queue.WriteBuffer(toBuf, 0, toPix)

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "xfade_bind", Layout: tp.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: paramSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: fromBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: toBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "xfade_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("xfade"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "xfade_pass"})
	pass.SetPipeline(tp.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((w+15)/16, (h+15)/16, 1)
	pass.End()
	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
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
	copyRows(readback, target)
	return nil
}

// copyRows copies the tightly packed readback into the target, honoring its
// row stride.
func copyRows(src []byte, target xfade.RenderTarget) {
	rowBytes := target.Width * 4
	for y := 0; y < target.Height; y++ {
		copy(target.Data[y*target.Stride:y*target.Stride+rowBytes], src[y*rowBytes:])
	}
}

func (a *WGPUAccelerator) destroyPipelines() {
	if a.pipelines == nil || a.device == nil {
		return
	}
	a.pipelines.Each(func(_ string, tp *transitionPipeline) {
		a.destroyPipeline(tp)
	})
	a.pipelines.Purge()
}

func (a *WGPUAccelerator) destroyPipeline(tp *transitionPipeline) {
	if a.device == nil || tp == nil {
		return
	}
	if tp.pipeline != nil {
		a.device.DestroyComputePipeline(tp.pipeline)
	}
	if tp.pipeLayout != nil {
		a.device.DestroyPipelineLayout(tp.pipeLayout)
	}
	if tp.bindLayout != nil {
		a.device.DestroyBindGroupLayout(tp.bindLayout)
	}
	if tp.shader != nil {
		a.device.DestroyShaderModule(tp.shader)
	}
}
