package xfade

import "math"

// Flip family: the transition splits into two non-overlapping halves of the
// progress range. In [0, 0.5) only the outgoing image is shown, collapsing
// toward zero along one axis; in [0.5, 1] only the incoming image is shown,
// expanding from zero. Pixels whose inverse-scale coordinate lands outside
// [0, 1] render as the frame's fill color, never as a source sample.

// flipMinScale guards the inverse-scale division near the midpoint, where
// the visible extent collapses to zero.
const flipMinScale = 1e-4

// flipAxis performs the two-phase collapse along one axis. t is the
// coordinate along the flip axis; the returned source coordinate replaces it.
func flipAxis(fr *Frame, t float64) (coord float64, incoming, filled bool) {
	var s float64
	if fr.Progress < 0.5 {
		s = 1 - 2*fr.Progress
		incoming = false
	} else {
		s = 2*fr.Progress - 1
		incoming = true
	}
	s = math.Max(s, flipMinScale)
	coord = 0.5 + (t-0.5)/s
	filled = coord < 0 || coord > 1
	return coord, incoming, filled
}

// blendFlipHorizontal collapses the outgoing image to a vertical line, then
// expands the incoming image from it.
func blendFlipHorizontal(fr *Frame, u, v float64) RGBA {
	x, incoming, filled := flipAxis(fr, u)
	if filled {
		return fr.Fill
	}
	if incoming {
		return fr.To.Sample(x, v)
	}
	return fr.From.Sample(x, v)
}

// blendFlipVertical collapses the outgoing image to a horizontal line, then
// expands the incoming image from it.
func blendFlipVertical(fr *Frame, u, v float64) RGBA {
	y, incoming, filled := flipAxis(fr, v)
	if filled {
		return fr.Fill
	}
	if incoming {
		return fr.To.Sample(u, y)
	}
	return fr.From.Sample(u, y)
}
