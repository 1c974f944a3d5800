package xfade

import "math"

// EasingFunc is a monotonic reshaping function applied to linear progress.
// An easing must map 0 to 0 and 1 to 1, and stay within [0, 1] for inputs
// in [0, 1], so that transition endpoints remain exact.
type EasingFunc func(t float64) float64

// EaseLinear passes progress through unchanged.
func EaseLinear(t float64) float64 { return t }

// EaseSmoothstep applies the Hermite smoothstep curve t²(3 − 2t).
// Slow start, slow finish.
func EaseSmoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// EaseSineOut applies a sine ease-out: sin(t·π/2).
// Fast start that decelerates toward the end. This is the engine default.
func EaseSineOut(t float64) float64 {
	return math.Sin(clamp01(t) * math.Pi / 2)
}

// EaseInQuad applies an accelerating t² curve.
// Mask reveals use this for their threshold growth.
func EaseInQuad(t float64) float64 {
	t = clamp01(t)
	return t * t
}

// EaseInOutCubic accelerates through the first half and decelerates
// through the second.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// smoothstep performs Hermite interpolation between edge0 and edge1.
// Returns 0 for x ≤ edge0 and 1 for x ≥ edge1.
func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
