package xfade

import "math"

// builtinBlends maps transition ids to their software implementations.
// The WGSL sources under shaders/ carry the same ids in their metadata;
// catalog load pairs each shader with its Go counterpart.
var builtinBlends = map[string]BlendFunc{
	// fade family
	"fade":      blendFade,
	"dissolve":  blendDissolve,
	"flash":     blendFlash,
	"fade_gray": blendFadeGray,
	"grain":     blendGrain,
	"vignette":  blendVignette,

	// geometric mask family
	"circle":  blendCircle,
	"diamond": blendDiamond,
	"star":    blendStar,
	"heart":   blendHeart,
	"squares": blendSquares,

	// slide family
	"slide_left":  blendSlideLeft,
	"slide_right": blendSlideRight,
	"slide_up":    blendSlideUp,

	// wipe family
	"wipe_right": blendWipeRight,
	"wipe_left":  blendWipeLeft,
	"wipe_down":  blendWipeDown,

	// zoom/rotate family
	"zoom_in":  blendZoomIn,
	"zoom_out": blendZoomOut,
	"rotate":   blendRotate,

	// flip family
	"flip_horizontal": blendFlipHorizontal,
	"flip_vertical":   blendFlipVertical,
}

// envelope is the transient-effect weight used by fade variants: it peaks
// at progress 0.5 and scales to exactly zero at both endpoints, so endpoint
// frames match the pure sources.
func envelope(p float64) float64 {
	return math.Sin(clamp01(p) * math.Pi)
}

// hash21 is a deterministic pseudo-random hash of a 2D coordinate in [0, 1).
// The constants are the classic GLSL one-liner; determinism matters because
// the same frame must render identically across invocations and backends.
func hash21(x, y float64) float64 {
	s := math.Sin(x*127.1+y*311.7) * 43758.5453123
	return s - math.Floor(s)
}
