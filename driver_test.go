package xfade

import (
	"errors"
	"image/color"
	"testing"
	"time"
)

func testRequest(key string) FrameRequest {
	return FrameRequest{
		Pair: ClipPair{
			Key:  key,
			From: solidImage(8, 8, color.NRGBA{R: 255, A: 255}),
			To:   solidImage(8, 8, color.NRGBA{B: 255, A: 255}),
		},
		TransitionID: "fade",
		Window: RenderWindow{
			ClipStart:          0,
			ClipDuration:       3 * time.Second,
			TransitionDuration: 500 * time.Millisecond,
		},
	}
}

func TestDriverFrameBeforeWindow(t *testing.T) {
	d := mustDriver(t)
	defer d.Close()

	pm, err := d.RenderFrame(1*time.Second, testRequest("0-1"))
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := pm.GetPixel(4, 4); !colorsEqual(got, RGBA{R: 1, A: 1}, 0.01) {
		t.Errorf("before window: pixel = %+v, want pure outgoing", got)
	}
	// Only the solo texture is resident.
	if got := d.Textures().Active(); got != 1 {
		t.Errorf("Active = %d, want 1 (solo)", got)
	}
}

func TestDriverFrameInsideWindow(t *testing.T) {
	d := mustDriver(t)
	defer d.Close()

	req := testRequest("0-1")
	pm, err := d.RenderFrame(2750*time.Millisecond, req)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	got := pm.GetPixel(4, 4)
	// Mid-window: a genuine mix of red and blue.
	if got.R <= 0.05 || got.B <= 0.05 {
		t.Errorf("mid window: pixel = %+v, want mixed", got)
	}
	if got := d.Textures().Active(); got != 2 {
		t.Errorf("Active = %d, want 2 (pair)", got)
	}
}

func TestDriverFrameAfterWindow(t *testing.T) {
	d := mustDriver(t)
	defer d.Close()

	req := testRequest("0-1")
	if _, err := d.RenderFrame(2750*time.Millisecond, req); err != nil {
		t.Fatalf("in-window frame: %v", err)
	}
	pm, err := d.RenderFrame(3100*time.Millisecond, req)
	if err != nil {
		t.Fatalf("after-window frame: %v", err)
	}
	if got := pm.GetPixel(4, 4); !colorsEqual(got, RGBA{B: 1, A: 1}, 0.01) {
		t.Errorf("after window: pixel = %+v, want pure incoming", got)
	}
	// The pair was released when the window closed.
	if got := d.Textures().Active(); got != 1 {
		t.Errorf("Active = %d, want 1 (solo)", got)
	}
}

func TestDriverWindowLifecycle(t *testing.T) {
	d := mustDriver(t)
	defer d.Close()

	req := testRequest("0-1")
	steps := []struct {
		ts         time.Duration
		wantActive int
	}{
		{0, 1},                       // solo outgoing
		{2 * time.Second, 1},         // still solo
		{2500 * time.Millisecond, 2}, // window opens: pair
		{2900 * time.Millisecond, 2}, // pair persists across frames
		{3000 * time.Millisecond, 1}, // window closed: solo incoming
		{3400 * time.Millisecond, 1},
	}
	for _, s := range steps {
		if _, err := d.RenderFrame(s.ts, req); err != nil {
			t.Fatalf("RenderFrame(%v): %v", s.ts, err)
		}
		if got := d.Textures().Active(); got != s.wantActive {
			t.Errorf("at %v: Active = %d, want %d", s.ts, got, s.wantActive)
		}
	}
}

func TestDriverPairSwitchReleases(t *testing.T) {
	d := mustDriver(t)
	defer d.Close()

	if _, err := d.RenderFrame(2750*time.Millisecond, testRequest("0-1")); err != nil {
		t.Fatalf("first pair: %v", err)
	}
	if got := d.Textures().Active(); got != 2 {
		t.Fatalf("Active = %d, want 2", got)
	}
	// New boundary key: old pair must be released before the new one loads.
	if _, err := d.RenderFrame(2750*time.Millisecond, testRequest("1-2")); err != nil {
		t.Fatalf("second pair: %v", err)
	}
	if got := d.Textures().Active(); got != 2 {
		t.Errorf("after switch: Active = %d, want 2", got)
	}
}

func TestDriverUnknownTransitionFallsBack(t *testing.T) {
	d := mustDriver(t)
	defer d.Close()

	req := testRequest("0-1")
	req.TransitionID = "no_such_transition"
	pm, err := d.RenderFrame(2750*time.Millisecond, req)
	if err != nil {
		t.Fatalf("RenderFrame with unknown id: %v", err)
	}
	// Default fade still produces a mixed frame.
	got := pm.GetPixel(4, 4)
	if got.R <= 0.05 || got.B <= 0.05 {
		t.Errorf("fallback frame: pixel = %+v, want mixed", got)
	}
}

func TestDriverMissingSourceFails(t *testing.T) {
	d := mustDriver(t)
	defer d.Close()

	req := testRequest("0-1")
	req.Pair.To = nil
	if _, err := d.RenderFrame(2750*time.Millisecond, req); !errors.Is(err, ErrTextureLoad) {
		t.Errorf("missing incoming inside window: err = %v, want ErrTextureLoad", err)
	}
	if got := d.Textures().Active(); got != 0 {
		t.Errorf("leak after failed load: Active = %d", got)
	}
}

func TestDriverClose(t *testing.T) {
	d := mustDriver(t)
	if _, err := d.RenderFrame(2750*time.Millisecond, testRequest("0-1")); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	d.Close()
	if got := d.Textures().Active(); got != 0 {
		t.Errorf("Active after Close = %d, want 0", got)
	}
	if _, err := d.RenderFrame(0, testRequest("0-1")); !errors.Is(err, ErrDriverClosed) {
		t.Errorf("render after Close: err = %v, want ErrDriverClosed", err)
	}
	d.Close() // idempotent
}

func TestDriverEveryBuiltinRenders(t *testing.T) {
	catalog := NewCatalog()
	d, err := NewDriver(catalog, 8, 8)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	defer d.Close()

	for _, def := range catalog.All() {
		req := testRequest("0-1")
		req.TransitionID = def.ID
		for _, ts := range []time.Duration{
			2500 * time.Millisecond,
			2750 * time.Millisecond,
			2999 * time.Millisecond,
		} {
			if _, err := d.RenderFrame(ts, req); err != nil {
				t.Errorf("%s at %v: %v", def.ID, ts, err)
			}
		}
	}
}

func TestDriverOptions(t *testing.T) {
	catalog := NewCatalog()
	d, err := NewDriver(catalog, 8, 8,
		WithSoftness(0.2),
		WithFillColor(RGBA{G: 1, A: 1}),
		WithWorkers(2),
		WithEasing(EaseLinear),
		WithAccelerator(nil),
	)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	defer d.Close()

	req := testRequest("0-1")
	req.TransitionID = "flip_horizontal"
	// Near the flip midpoint the frame edge shows the fill color.
	w := req.Window
	mid := w.TransitionStart() + w.TransitionDuration/2
	pm, err := d.RenderFrame(mid-time.Millisecond, req)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := pm.GetPixel(0, 4); !colorsEqual(got, RGBA{G: 1, A: 1}, 0.01) {
		t.Errorf("fill pixel = %+v, want configured fill", got)
	}
}

func TestNewDriverValidation(t *testing.T) {
	if _, err := NewDriver(nil, 8, 8); err == nil {
		t.Error("nil catalog: want error")
	}
	if _, err := NewDriver(NewCatalog(), 0, 8); err == nil {
		t.Error("zero width: want error")
	}
}

func mustDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := NewDriver(NewCatalog(), 8, 8, WithAccelerator(nil))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	return d
}
