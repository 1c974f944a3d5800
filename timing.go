package xfade

import "time"

// RenderWindow describes one clip's transition window on the global
// composition timeline. All values are timeline offsets/durations with
// microsecond-or-better resolution (time.Duration).
//
// Invariants: TransitionDuration ≤ ClipDuration; the window occupies the
// last TransitionDuration of the clip, so
//
//	TransitionStart = ClipStart + ClipDuration − TransitionDuration
//	TransitionEnd   = ClipStart + ClipDuration
//
// A RenderWindow is ephemeral: the driver's caller derives one per clip
// boundary and discards it when the next clip's window opens.
type RenderWindow struct {
	ClipStart          time.Duration
	ClipDuration       time.Duration
	TransitionDuration time.Duration
}

// TransitionStart returns the timestamp at which blending begins.
func (w RenderWindow) TransitionStart() time.Duration {
	return w.ClipStart + w.ClipDuration - w.TransitionDuration
}

// TransitionEnd returns the timestamp at which blending completes.
func (w RenderWindow) TransitionEnd() time.Duration {
	return w.ClipStart + w.ClipDuration
}

// Contains reports whether ts falls inside the half-open transition
// window [TransitionStart, TransitionEnd).
func (w RenderWindow) Contains(ts time.Duration) bool {
	return ts >= w.TransitionStart() && ts < w.TransitionEnd()
}

// Resolver converts a global render timestamp and a RenderWindow into the
// blend progress handed to the transition functions.
//
// The linear progress is clamped to [0, 1] to absorb floating-point
// overshoot, then reshaped by the engine easing. This engine-level easing is
// distinct from the progress-local easing some blend functions apply
// internally; the two compose (engine first).
type Resolver struct {
	// Easing is the engine-level easing. Nil means EaseSineOut.
	Easing EasingFunc
}

// NewResolver returns a resolver with the default sine ease-out easing.
func NewResolver() *Resolver {
	return &Resolver{Easing: EaseSineOut}
}

// Resolve maps ts to the eased blend progress for the given window.
//
// Policy: 0 before the window, 1 at or after its end, linear interpolation
// in between. A zero or negative transition duration is a degenerate window
// treated as an instantaneous cut: progress is 1 for any timestamp at or
// after TransitionStart.
func (r *Resolver) Resolve(ts time.Duration, w RenderWindow) float64 {
	start := w.TransitionStart()
	if w.TransitionDuration <= 0 {
		if ts >= start {
			return 1
		}
		return 0
	}
	if ts < start {
		return 0
	}
	if ts >= w.TransitionEnd() {
		return 1
	}
	linear := clamp01(float64(ts-start) / float64(w.TransitionDuration))
	return r.easing()(linear)
}

func (r *Resolver) easing() EasingFunc {
	if r.Easing == nil {
		return EaseSineOut
	}
	return r.Easing
}
