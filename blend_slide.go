package xfade

// Slide family: both sources translate together by the progress offset, so
// the incoming image pushes the outgoing one out of frame. The switch point
// is exact — every output pixel comes from exactly one source — and samples
// that land outside a source are clamped to its edge by the sampler.
//
// Wipe family: a soft edge travels across the frame; its travel range is
// padded by the softness band so the blend is exactly 0 at progress 0 and
// exactly 1 at progress 1 even at the frame borders.

// blendSlideLeft pushes the outgoing image out to the left.
func blendSlideLeft(fr *Frame, u, v float64) RGBA {
	x := u + fr.Progress
	if x < 1 {
		return fr.From.Sample(x, v)
	}
	return fr.To.Sample(x-1, v)
}

// blendSlideRight pushes the outgoing image out to the right.
func blendSlideRight(fr *Frame, u, v float64) RGBA {
	x := u - fr.Progress
	if x >= 0 {
		return fr.From.Sample(x, v)
	}
	return fr.To.Sample(x+1, v)
}

// blendSlideUp pushes the outgoing image out over the top edge.
func blendSlideUp(fr *Frame, u, v float64) RGBA {
	y := v + fr.Progress
	if y < 1 {
		return fr.From.Sample(u, y)
	}
	return fr.To.Sample(u, y-1)
}

// wipeMask returns the incoming-image weight for a wipe whose soft edge has
// travelled to progress p along coordinate t ∈ [0, 1].
func wipeMask(p, t, softness float64) float64 {
	edge := p*(1+2*softness) - softness
	return 1 - smoothstep(edge-softness, edge+softness, t)
}

// blendWipeRight reveals the incoming image behind an edge moving
// left-to-right.
func blendWipeRight(fr *Frame, u, v float64) RGBA {
	m := wipeMask(fr.Progress, u, fr.Softness)
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), m)
}

// blendWipeLeft reveals the incoming image behind an edge moving
// right-to-left.
func blendWipeLeft(fr *Frame, u, v float64) RGBA {
	m := wipeMask(fr.Progress, 1-u, fr.Softness)
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), m)
}

// blendWipeDown reveals the incoming image behind an edge moving
// top-to-bottom.
func blendWipeDown(fr *Frame, u, v float64) RGBA {
	m := wipeMask(fr.Progress, v, fr.Softness)
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), m)
}
