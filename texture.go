package xfade

import (
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"
)

// FilterMode selects the sampling filter of a texture.
type FilterMode uint8

const (
	// FilterLinear is bilinear filtering, the only mode the engine uses.
	FilterLinear FilterMode = iota
	// FilterNearest is point sampling, kept for debugging comparisons.
	FilterNearest
)

// WrapMode selects how out-of-range coordinates are resolved.
type WrapMode uint8

const (
	// WrapClampToEdge clamps coordinates to the texture border.
	WrapClampToEdge WrapMode = iota
)

// SamplerConfig is the filter/wrap configuration of a texture. Both textures
// of a pair always carry an identical config; this is asserted by tests
// because a mismatch between the outgoing and incoming texture is the most
// common and subtle correctness bug in this domain.
type SamplerConfig struct {
	Filter FilterMode
	Wrap   WrapMode
}

// defaultSampler is the single configuration used by the upload path.
var defaultSampler = SamplerConfig{Filter: FilterLinear, Wrap: WrapClampToEdge}

// Texture is an uploaded source image: an RGBA8 buffer at the output
// resolution plus its sampler configuration. Textures are created only by
// the TextureManager and are immutable between upload and release.
type Texture struct {
	width    int
	height   int
	pix      []uint8
	config   SamplerConfig
	released atomic.Bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Config returns the sampler configuration.
func (t *Texture) Config() SamplerConfig { return t.config }

// Released reports whether the texture has been released.
func (t *Texture) Released() bool { return t.released.Load() }

// Pixels returns the raw RGBA8 buffer, 4 bytes per pixel in row order.
// Used by accelerators to upload the texture; callers must not mutate it.
// Returns nil after release.
func (t *Texture) Pixels() []uint8 { return t.pix }

// Sample reads the texture at normalized coordinates with bilinear
// filtering and clamp-to-edge wrapping. Coordinates map texel centers so
// that u = (x+0.5)/width returns texel x exactly.
func (t *Texture) Sample(u, v float64) RGBA {
	x := clamp01(u)*float64(t.width) - 0.5
	y := clamp01(v)*float64(t.height) - 0.5

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	if t.config.Filter == FilterNearest {
		return t.texel(x0+int(math.Round(fx)), y0+int(math.Round(fy)))
	}

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)
	top := c00.Lerp(c10, fx)
	bottom := c01.Lerp(c11, fx)
	return top.Lerp(bottom, fy)
}

// texel reads one pixel with clamp-to-edge addressing.
func (t *Texture) texel(x, y int) RGBA {
	if x < 0 {
		x = 0
	} else if x >= t.width {
		x = t.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.height {
		y = t.height - 1
	}
	i := (y*t.width + x) * 4
	return RGBA{
		R: float64(t.pix[i+0]) / 255,
		G: float64(t.pix[i+1]) / 255,
		B: float64(t.pix[i+2]) / 255,
		A: float64(t.pix[i+3]) / 255,
	}
}

// TexturePair holds the outgoing and incoming textures of one transition
// window. Both are created by the same upload call and released together.
type TexturePair struct {
	From *Texture
	To   *Texture
}

// TextureManager owns the lifecycle of transition source textures. All
// uploads — outgoing and incoming alike — go through one code path with one
// format conversion and one sampler configuration, so no color or sampling
// discrepancy can exist between the two sources of a pair.
//
// TextureManager is safe for concurrent use, though the driver serializes
// its calls in practice.
type TextureManager struct {
	width  int
	height int

	mu     sync.Mutex
	active int // live textures, for leak diagnostics
}

// NewTextureManager creates a manager that uploads sources at the given
// output resolution.
func NewTextureManager(width, height int) *TextureManager {
	return &TextureManager{width: width, height: height}
}

// Load uploads the outgoing and incoming source images as a pair. Both go
// through the identical upload path. A nil or empty source fails with an
// error wrapping ErrTextureLoad — never a silent fallback to a shared
// default texture, which would corrupt the blend. On partial failure the
// successfully created texture is freed before returning.
func (m *TextureManager) Load(from, to image.Image) (*TexturePair, error) {
	fromTex, err := m.upload(from)
	if err != nil {
		return nil, fmt.Errorf("outgoing source: %w", err)
	}
	toTex, err := m.upload(to)
	if err != nil {
		m.releaseOne(fromTex)
		return nil, fmt.Errorf("incoming source: %w", err)
	}
	return &TexturePair{From: fromTex, To: toTex}, nil
}

// LoadSingle uploads one source alone, for frames outside a transition
// window where only one clip is visible. It uses the same upload path as
// Load.
func (m *TextureManager) LoadSingle(src image.Image) (*Texture, error) {
	return m.upload(src)
}

// upload is the single creation path for every texture: one format
// conversion (bilinear scale to the output resolution via x/image) and one
// sampler configuration.
func (m *TextureManager) upload(src image.Image) (*Texture, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrTextureLoad)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %v", ErrTextureLoad, b)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	if b.Dx() == m.width && b.Dy() == m.height {
		xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	} else {
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	}

	tex := &Texture{
		width:  m.width,
		height: m.height,
		pix:    dst.Pix,
		config: defaultSampler,
	}
	m.mu.Lock()
	m.active++
	m.mu.Unlock()
	return tex, nil
}

// Release frees both textures of a pair. It is idempotent: releasing an
// already-released pair, or a pair that was only partially created, is a
// no-op for the parts already freed.
func (m *TextureManager) Release(pair *TexturePair) {
	if pair == nil {
		return
	}
	m.releaseOne(pair.From)
	m.releaseOne(pair.To)
}

// ReleaseSingle frees a texture created by LoadSingle. Idempotent.
func (m *TextureManager) ReleaseSingle(tex *Texture) {
	m.releaseOne(tex)
}

func (m *TextureManager) releaseOne(tex *Texture) {
	if tex == nil || tex.released.Swap(true) {
		return
	}
	tex.pix = nil
	m.mu.Lock()
	m.active--
	m.mu.Unlock()
}

// Active returns the number of live textures. Used by teardown checks and
// leak tests; it must be zero after the owning driver closes.
func (m *TextureManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
