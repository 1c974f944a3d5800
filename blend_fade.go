package xfade

import "math"

// Fade family: the output is a weighted mix of the two sources. Variants
// layer a transient perceptual effect on top of the mix, weighted by an
// envelope that is zero at both endpoints.

// blendFade is the plain linear cross-fade and the catalog default.
func blendFade(fr *Frame, u, v float64) RGBA {
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), fr.Progress)
}

// blendDissolve cross-fades with smoothstep-eased progress, holding each
// source a little longer at the endpoints.
func blendDissolve(fr *Frame, u, v float64) RGBA {
	return fr.From.Sample(u, v).Lerp(fr.To.Sample(u, v), EaseSmoothstep(fr.Progress))
}

// blendFlash cross-fades through a brightness burst that peaks mid-transition.
func blendFlash(fr *Frame, u, v float64) RGBA {
	c := blendFade(fr, u, v)
	boost := 0.6 * envelope(fr.Progress)
	return c.Lerp(White, boost)
}

// blendFadeGray desaturates toward luma mid-transition, a film-style
// "through gray" dissolve.
func blendFadeGray(fr *Frame, u, v float64) RGBA {
	c := blendFade(fr, u, v)
	l := c.Luminance()
	gray := RGBA{R: l, G: l, B: l, A: c.A}
	return c.Lerp(gray, 0.85*envelope(fr.Progress))
}

// blendGrain overlays deterministic film grain that peaks mid-transition.
func blendGrain(fr *Frame, u, v float64) RGBA {
	c := blendFade(fr, u, v)
	n := (hash21(u, v) - 0.5) * 0.25 * envelope(fr.Progress)
	return RGBA{
		R: clamp01(c.R + n),
		G: clamp01(c.G + n),
		B: clamp01(c.B + n),
		A: c.A,
	}
}

// blendVignette darkens the frame corners mid-transition, drawing the eye
// to the center while the sources swap.
func blendVignette(fr *Frame, u, v float64) RGBA {
	c := blendFade(fr, u, v)
	dx := (u - 0.5) * fr.Aspect
	dy := v - 0.5
	d := math.Hypot(dx, dy)
	shade := 0.7 * envelope(fr.Progress) * smoothstep(0.25, 0.85, d)
	return c.Scale(1 - shade)
}
