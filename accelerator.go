package xfade

import (
	"errors"
	"sync"
)

// RenderTarget provides pixel buffer access for accelerator output.
// Data is non-premultiplied RGBA, 4 bytes per pixel, row by row with the
// given stride.
type RenderTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row
}

// Accelerator is an optional GPU transition compositor.
//
// When registered via RegisterAccelerator, the Driver tries the accelerator
// first for supported transitions. If it returns ErrFallbackToCPU or any
// other error, compositing transparently falls back to the software path.
//
// Implementations are provided by backend packages. Users opt in via blank
// import:
//
//	import _ "github.com/gogpu/xfade/gpu" // enables wgpu acceleration
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given
	// transition id. This is a fast check used to skip the GPU entirely.
	CanAccelerate(id string) bool

	// RenderTransition composites one frame of the transition into target.
	// Returns ErrFallbackToCPU if the transition cannot be accelerated.
	RenderTransition(target RenderTarget, fr *Frame, def *Definition) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers a GPU accelerator for optional accelerated
// compositing. Only one accelerator can be registered; subsequent calls
// replace the previous one. The accelerator's Init method is called during
// registration; if it fails, the accelerator is not registered and the
// error is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("xfade: accelerator must not be nil")
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
	Logger().Info("accelerator registered", "name", a.Name())
	return nil
}

// RegisteredAccelerator returns the currently registered accelerator, or
// nil if none.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}
