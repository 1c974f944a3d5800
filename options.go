package xfade

// DriverOption configures a Driver during creation.
//
// Example:
//
//	driver, err := xfade.NewDriver(catalog, 1920, 1080,
//	    xfade.WithSoftness(0.08),
//	    xfade.WithWorkers(4),
//	)
type DriverOption func(*driverOptions)

// driverOptions holds optional configuration for Driver creation.
type driverOptions struct {
	softness    float64
	fill        RGBA
	workers     int
	easing      EasingFunc
	accelerator Accelerator
	accelSet    bool
}

// defaultDriverOptions returns the default driver configuration.
func defaultDriverOptions() driverOptions {
	return driverOptions{
		softness: 0.05,
		fill:     Black,
		workers:  0, // GOMAXPROCS
	}
}

// WithSoftness sets the edge-softness parameter passed to mask and wipe
// transitions. The value is the half-width of the anti-aliased edge band in
// normalized coordinates.
func WithSoftness(s float64) DriverOption {
	return func(o *driverOptions) {
		if s > 0 {
			o.softness = s
		}
	}
}

// WithFillColor sets the color rendered where a transition transform maps a
// pixel outside both sources (flip family). Defaults to black.
func WithFillColor(c RGBA) DriverOption {
	return func(o *driverOptions) {
		o.fill = c
	}
}

// WithWorkers sets the number of goroutines used by the software
// compositor. Zero or negative means GOMAXPROCS.
func WithWorkers(n int) DriverOption {
	return func(o *driverOptions) {
		o.workers = n
	}
}

// WithEasing overrides the engine-level easing applied to linear progress
// before any blend-local easing. Defaults to EaseSineOut.
func WithEasing(e EasingFunc) DriverOption {
	return func(o *driverOptions) {
		o.easing = e
	}
}

// WithAccelerator sets an explicit accelerator for this driver, overriding
// the process-wide registration. Pass nil to force software compositing.
func WithAccelerator(a Accelerator) DriverOption {
	return func(o *driverOptions) {
		o.accelerator = a
		o.accelSet = true
	}
}
