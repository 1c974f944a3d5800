package xfade

import (
	"errors"
	"image"
	"time"

	"github.com/gogpu/xfade/internal/parallel"
)

// driverState tracks where the driver stands relative to the current clip's
// transition window.
type driverState int

const (
	// driverIdle: no transition window entered yet; at most a solo texture
	// for the outgoing clip is resident.
	driverIdle driverState = iota
	// driverWindowActive: inside a transition window; the texture pair for
	// the current clip boundary is resident.
	driverWindowActive
	// driverWindowClosed: past the window's end; the pair has been released
	// and at most a solo texture for the incoming clip is resident.
	driverWindowClosed
)

// ClipPair identifies the two source images at one clip boundary. Key must
// change whenever the boundary changes (e.g. the clip index); the driver uses
// it to detect pair switches and release the previous textures first.
type ClipPair struct {
	Key  string
	From image.Image
	To   image.Image
}

// FrameRequest describes one frame to composite: the clip boundary sources,
// the transition selection and the window on the timeline.
type FrameRequest struct {
	Pair         ClipPair
	TransitionID string
	Window       RenderWindow
}

// Driver composites frames around clip boundaries. It owns the texture
// lifecycle: the texture pair for a boundary exists exactly while its
// transition window is active, and a single solo texture covers the frames
// before and after the window. Callers feed monotonically increasing
// timestamps within one boundary; switching to a new ClipPair key resets the
// cycle.
//
// Driver is not safe for concurrent use; render frames from one goroutine.
type Driver struct {
	catalog  *Catalog
	textures *TextureManager
	resolver *Resolver
	opts     driverOptions

	width  int
	height int
	out    *Pixmap

	state   driverState
	pairKey string
	pair    *TexturePair

	soloKey string
	solo    *Texture

	closed bool
}

// NewDriver creates a driver rendering at the given output resolution.
func NewDriver(catalog *Catalog, width, height int, opts ...DriverOption) (*Driver, error) {
	if catalog == nil {
		return nil, errors.New("xfade: driver requires a catalog")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("xfade: driver requires a positive output size")
	}
	o := defaultDriverOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.accelSet {
		o.accelerator = RegisteredAccelerator()
	}
	res := NewResolver()
	if o.easing != nil {
		res.Easing = o.easing
	}
	return &Driver{
		catalog:  catalog,
		textures: NewTextureManager(width, height),
		resolver: res,
		opts:     o,
		width:    width,
		height:   height,
		out:      NewPixmap(width, height),
	}, nil
}

// Textures exposes the driver's texture manager, mainly for leak checks in
// teardown paths.
func (d *Driver) Textures() *TextureManager {
	return d.textures
}

// RenderFrame composites the frame at timestamp ts for the given request and
// returns the driver-owned output pixmap. The pixmap is reused by the next
// call; copy it if it must outlive the frame.
//
// Outside the transition window the frame shows a single clip (outgoing
// before the window, incoming after), uploaded through the same path as the
// pair. Inside the window both sources are resident and blended at the
// resolved progress.
func (d *Driver) RenderFrame(ts time.Duration, req FrameRequest) (*Pixmap, error) {
	if d.closed {
		return nil, ErrDriverClosed
	}
	if req.Pair.Key != d.pairKey {
		d.releasePair()
		d.releaseSolo()
		d.pairKey = req.Pair.Key
		d.state = driverIdle
	}

	w := req.Window
	switch {
	case ts < w.TransitionStart():
		d.releasePair()
		d.state = driverIdle
		return d.renderSolo(req.Pair.Key+"/from", req.Pair.From)

	case ts >= w.TransitionEnd():
		if d.state == driverWindowActive {
			d.releasePair()
		}
		d.state = driverWindowClosed
		return d.renderSolo(req.Pair.Key+"/to", req.Pair.To)

	default:
		d.releaseSolo()
		if d.pair == nil {
			pair, err := d.textures.Load(req.Pair.From, req.Pair.To)
			if err != nil {
				return nil, err
			}
			d.pair = pair
		}
		d.state = driverWindowActive
		return d.renderTransition(ts, req)
	}
}

// renderSolo shows a single clip, uploading it on first use and caching the
// texture until the source changes.
func (d *Driver) renderSolo(key string, src image.Image) (*Pixmap, error) {
	if d.soloKey != key {
		d.releaseSolo()
		tex, err := d.textures.LoadSingle(src)
		if err != nil {
			return nil, err
		}
		d.solo = tex
		d.soloKey = key
	}
	copy(d.out.Data(), d.solo.pix)
	return d.out, nil
}

// renderTransition blends the resident pair at the progress resolved for ts.
func (d *Driver) renderTransition(ts time.Duration, req FrameRequest) (*Pixmap, error) {
	var def *Definition
	if req.TransitionID == "" {
		// No selection configured for this boundary.
		def = d.catalog.Default()
	} else {
		var err error
		def, err = d.catalog.ByID(req.TransitionID)
		if errors.Is(err, ErrUnknownTransition) {
			Logger().Warn("driver: unknown transition, using default",
				"id", req.TransitionID)
			def = d.catalog.Default()
		} else if err != nil {
			return nil, err
		}
	}

	fr := Frame{
		From:     d.pair.From,
		To:       d.pair.To,
		Progress: d.resolver.Resolve(ts, req.Window),
		Aspect:   float64(d.width) / float64(d.height),
		Softness: d.opts.softness,
		Fill:     d.opts.fill,
	}

	if a := d.opts.accelerator; a != nil && a.CanAccelerate(def.ID) {
		target := RenderTarget{
			Data:   d.out.Data(),
			Width:  d.width,
			Height: d.height,
			Stride: d.width * 4,
		}
		if err := a.RenderTransition(target, &fr, def); err == nil {
			return d.out, nil
		} else if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("driver: accelerator failed, using software path",
				"accelerator", a.Name(), "id", def.ID, "err", err)
		}
	}

	d.renderSoftware(&fr, def.Blend)
	return d.out, nil
}

// renderSoftware runs the per-pixel blend across row bands. Coordinates are
// pixel centers mapped to [0, 1], matching the texture sampling convention.
func (d *Driver) renderSoftware(fr *Frame, blend BlendFunc) {
	pix := d.out.Data()
	invW := 1 / float64(d.width)
	invH := 1 / float64(d.height)
	parallel.ForRows(d.opts.workers, d.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) * invH
			i := y * d.width * 4
			for x := 0; x < d.width; x++ {
				u := (float64(x) + 0.5) * invW
				c := blend(fr, u, v)
				pix[i+0] = uint8(clamp255(c.R*255 + 0.5))
				pix[i+1] = uint8(clamp255(c.G*255 + 0.5))
				pix[i+2] = uint8(clamp255(c.B*255 + 0.5))
				pix[i+3] = uint8(clamp255(c.A*255 + 0.5))
				i += 4
			}
		}
	})
}

// Close releases all resident textures and the accelerator binding. The
// driver cannot render after Close; the texture manager's Active count is
// zero afterwards.
func (d *Driver) Close() {
	if d.closed {
		return
	}
	d.releasePair()
	d.releaseSolo()
	d.closed = true
}

func (d *Driver) releasePair() {
	if d.pair != nil {
		d.textures.Release(d.pair)
		d.pair = nil
	}
}

func (d *Driver) releaseSolo() {
	if d.solo != nil {
		d.textures.ReleaseSingle(d.solo)
		d.solo = nil
		d.soloKey = ""
	}
}
