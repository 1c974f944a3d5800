//go:build !nogpu

// Package gpu registers the wgpu transition accelerator.
//
// Import this package to composite transitions on the GPU: the embedded WGSL
// transition bodies are compiled to SPIR-V with naga and dispatched as
// compute shaders through wgpu/hal. If GPU initialization fails (no Vulkan
// available), registration is silently skipped and the driver renders on the
// CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/xfade/gpu" // enable GPU compositing
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/xfade"
)

// DeviceProvider is the host-side interface for sharing a GPU device with
// the accelerator. It is an alias for gpucontext.DeviceProvider so host
// applications built on the gpucontext ecosystem plug in directly; providers
// that additionally implement gpucontext.HalProvider expose the HAL handles
// SetDeviceProvider needs.
type DeviceProvider = gpucontext.DeviceProvider

func init() {
	accel := &WGPUAccelerator{}
	if err := xfade.RegisterAccelerator(accel); err != nil {
		xfade.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider switches the registered accelerator to a shared GPU
// device from an external provider (e.g., a gpucontext.DeviceProvider that
// also exposes HAL handles). This avoids creating a second GPU instance when
// the host application already owns one.
func SetDeviceProvider(provider any) error {
	a, ok := xfade.RegisteredAccelerator().(*WGPUAccelerator)
	if !ok {
		return ErrNoAccelerator
	}
	return a.SetDeviceProvider(provider)
}
