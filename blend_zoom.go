package xfade

import "math"

// Zoom/rotate family: a progress-driven affine transform about the frame
// center is applied to the sampling coordinate of one source, while a
// separately timed cross-fade window smoothstep(0.3, 1.0, p) blends toward
// the other source. The transform and the fade are independently timed.

// zoomFade is the secondary cross-fade window shared by the family.
func zoomFade(p float64) float64 {
	return smoothstep(0.3, 1.0, p)
}

// zoomMinScale guards the inverse-scale division against a degenerate
// near-zero factor.
const zoomMinScale = 1e-4

// scaleAbout maps (u, v) through the inverse of a scale s about the frame
// center, so sampling at the result magnifies the source by s.
func scaleAbout(u, v, s float64) (float64, float64) {
	if s < zoomMinScale {
		s = zoomMinScale
	}
	return 0.5 + (u-0.5)/s, 0.5 + (v-0.5)/s
}

// blendZoomIn magnifies the outgoing image while the incoming one fades in.
func blendZoomIn(fr *Frame, u, v float64) RGBA {
	s := 1 + 0.8*fr.Progress
	x, y := scaleAbout(u, v, s)
	from := fr.From.Sample(x, y)
	return from.Lerp(fr.To.Sample(u, v), zoomFade(fr.Progress))
}

// blendZoomOut grows the incoming image up from the frame center while the
// outgoing one fades away.
func blendZoomOut(fr *Frame, u, v float64) RGBA {
	x, y := scaleAbout(u, v, fr.Progress)
	to := fr.To.Sample(x, y)
	return fr.From.Sample(u, v).Lerp(to, zoomFade(fr.Progress))
}

// blendRotate spins the outgoing image a quarter turn about the frame
// center, with a slight zoom, while the incoming one fades in. The rotation
// is aspect-corrected so it is circular on screen.
func blendRotate(fr *Frame, u, v float64) RGBA {
	angle := fr.Progress * math.Pi / 2
	s := 1 + 0.5*fr.Progress
	sin, cos := math.Sincos(-angle)

	dx := (u - 0.5) * fr.Aspect
	dy := v - 0.5
	rx := (dx*cos - dy*sin) / s
	ry := (dx*sin + dy*cos) / s

	from := fr.From.Sample(0.5+rx/fr.Aspect, 0.5+ry)
	return from.Lerp(fr.To.Sample(u, v), zoomFade(fr.Progress))
}
