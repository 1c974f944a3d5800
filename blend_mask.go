package xfade

import "math"

// Geometric mask family: a scalar distance field over uv is compared against
// a progress-derived threshold. The incoming image is revealed where the
// field is below the threshold, with a soft edge of width Softness. The
// threshold grows with progress² for an accelerating reveal.
//
// Endpoints are exact by contract: every mask function returns the pure
// outgoing color at progress 0 and the pure incoming color at progress 1,
// regardless of field coverage at extreme aspect ratios.

// maskReveal blends the two sources across a soft threshold edge.
func maskReveal(fr *Frame, u, v, dist, threshold float64) RGBA {
	if fr.Progress <= 0 {
		return fr.From.Sample(u, v)
	}
	if fr.Progress >= 1 {
		return fr.To.Sample(u, v)
	}
	m := 1 - smoothstep(threshold-fr.Softness, threshold+fr.Softness, dist)
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), m)
}

// centered returns the aspect-corrected offset of (u, v) from frame center,
// so distances are circular on screen rather than in uv space.
func centered(fr *Frame, u, v float64) (dx, dy float64) {
	return (u - 0.5) * fr.Aspect, v - 0.5
}

// blendCircle reveals the incoming image inside a centered disc whose radius
// is progress². At progress 0.5 the disc radius is exactly 0.25.
func blendCircle(fr *Frame, u, v float64) RGBA {
	dx, dy := centered(fr, u, v)
	dist := math.Hypot(dx, dy)
	return maskReveal(fr, u, v, dist, EaseInQuad(fr.Progress))
}

// blendDiamond reveals inside a growing centered diamond (L1 ball).
// The threshold is scaled so the diamond covers the full frame, corners
// included, as progress reaches 1.
func blendDiamond(fr *Frame, u, v float64) RGBA {
	dx, dy := centered(fr, u, v)
	dist := math.Abs(dx) + math.Abs(dy)
	cover := 0.5*fr.Aspect + 0.5 + fr.Softness
	return maskReveal(fr, u, v, dist, EaseInQuad(fr.Progress)*cover)
}

// starLobeMin is the minimum of the 5-fold lobe modulation below; the cover
// radius divides by it so the star's concave notches still reach the frame
// corners at progress 1.
const starLobeMin = 0.1

// blendStar reveals inside a growing 5-pointed star. The star boundary is a
// polar curve whose radius is modulated by a 5-fold cosine lobe.
func blendStar(fr *Frame, u, v float64) RGBA {
	dx, dy := centered(fr, u, v)
	r := math.Hypot(dx, dy)
	theta := math.Atan2(dy, dx)
	// Point the star upward: rotate so a lobe peak sits at -π/2.
	lobe := 0.55 + 0.45*math.Cos(5*(theta+math.Pi/2))
	dist := r / lobe
	cover := (math.Hypot(0.5*fr.Aspect, 0.5) + fr.Softness) / starLobeMin
	return maskReveal(fr, u, v, dist, EaseInQuad(fr.Progress)*cover)
}

// blendHeart reveals inside a growing heart. The boundary is the implicit
// sextic (x² + y² − 0.3)³ ≤ x²·y³ evaluated in size-normalized coordinates;
// the signed residual serves as the distance field for edge softening.
func blendHeart(fr *Frame, u, v float64) RGBA {
	if fr.Progress <= 0 {
		return fr.From.Sample(u, v)
	}
	if fr.Progress >= 1 {
		return fr.To.Sample(u, v)
	}
	size := EaseInQuad(fr.Progress) * 1.6
	if size < 1e-6 {
		return fr.From.Sample(u, v)
	}
	// Heart center sits slightly above frame center; +y points up here.
	x := (u - 0.5) * fr.Aspect / size
	y := (0.55 - v) / size
	a := x*x + y*y - 0.3
	field := a*a*a - x*x*y*y*y
	m := 1 - smoothstep(-fr.Softness, fr.Softness, field)
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), m)
}

// squaresGrid is the cell count of the square-grid reveal along each axis.
const squaresGrid = 8

// blendSquares dissolves the frame cell by cell on an 8×8 grid. Each cell
// flips in a deterministic pseudo-random order; the per-cell switch is
// softened so the overall effect reads as a staggered checker dissolve.
func blendSquares(fr *Frame, u, v float64) RGBA {
	cx := math.Floor(u * squaresGrid)
	cy := math.Floor(v * squaresGrid)
	h := hash21(cx, cy)
	t := EaseInQuad(fr.Progress)
	w := math.Max(fr.Softness, 0.05)
	// Cell h switches on as t crosses h·(1−w); the band width w softens it.
	// h < 1 strictly, so every cell is fully on at t = 1 and off at t = 0.
	m := smoothstep(h*(1-w), h*(1-w)+w, t)
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), m)
}
