package xfade

import (
	"errors"
	"testing"
	"time"
)

func fiveSlides() []Slide {
	slides := make([]Slide, 5)
	for i := range slides {
		slides[i] = Slide{
			Duration:           3000 * time.Millisecond,
			TransitionID:       "fade",
			TransitionDuration: 500 * time.Millisecond,
		}
	}
	return slides
}

func TestBuildTimelineTotal(t *testing.T) {
	tl, err := BuildTimeline(fiveSlides())
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	// 5 clips of 3s plus 4 transitions of 500ms; the last slide has no
	// outgoing transition.
	if got, want := tl.Total(), 17000*time.Millisecond; got != want {
		t.Errorf("Total = %v, want %v", got, want)
	}
}

func TestBuildTimelineFirstWindow(t *testing.T) {
	tl, err := BuildTimeline(fiveSlides())
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	w := tl.Clips()[0].Window
	if got := w.TransitionStart(); got != 2500*time.Millisecond {
		t.Errorf("first window start = %v, want 2.5s", got)
	}
	if got := w.TransitionEnd(); got != 3000*time.Millisecond {
		t.Errorf("first window end = %v, want 3s", got)
	}
}

func TestBuildTimelineLastSlideNoTransition(t *testing.T) {
	tl, err := BuildTimeline(fiveSlides())
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	last := tl.Clips()[4]
	if got := last.Window.TransitionDuration; got != 0 {
		t.Errorf("last clip transition = %v, want 0", got)
	}
}

func TestBuildTimelineClampsLongTransition(t *testing.T) {
	slides := []Slide{
		{Duration: 400 * time.Millisecond, TransitionID: "fade", TransitionDuration: 1 * time.Second},
		{Duration: 3 * time.Second},
	}
	tl, err := BuildTimeline(slides)
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	if got, want := tl.Clips()[0].Window.TransitionDuration, 200*time.Millisecond; got != want {
		t.Errorf("clamped transition = %v, want %v (half clip)", got, want)
	}
}

func TestBuildTimelineErrors(t *testing.T) {
	if _, err := BuildTimeline(nil); !errors.Is(err, ErrEmptyTimeline) {
		t.Errorf("empty: err = %v, want ErrEmptyTimeline", err)
	}
	if _, err := BuildTimeline([]Slide{{Duration: 0}}); err == nil {
		t.Error("zero duration: want error")
	}
}

func TestWindowAt(t *testing.T) {
	tl, err := BuildTimeline(fiveSlides())
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	tests := []struct {
		name     string
		ts       time.Duration
		wantClip int
		wantOK   bool
	}{
		{"mid_first_clip", 1500 * time.Millisecond, 0, false},
		{"in_first_window", 2800 * time.Millisecond, 0, true},
		{"after_first_window", 3200 * time.Millisecond, 0, false},
		{"in_second_window", 6200 * time.Millisecond, 1, true},
		{"past_end", 20 * time.Second, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip, ok := tl.WindowAt(tt.ts)
			if ok != tt.wantOK {
				t.Fatalf("WindowAt(%v) ok = %v, want %v", tt.ts, ok, tt.wantOK)
			}
			if ok && clip.Index != tt.wantClip {
				t.Errorf("WindowAt(%v) clip = %d, want %d", tt.ts, clip.Index, tt.wantClip)
			}
		})
	}
}

func TestClipAt(t *testing.T) {
	tl, err := BuildTimeline(fiveSlides())
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	tests := []struct {
		name     string
		ts       time.Duration
		wantClip int
		wantOK   bool
	}{
		{"start", 0, 0, true},
		{"mid_first", 2 * time.Second, 0, true},
		{"in_first_window", 2800 * time.Millisecond, 0, true},
		{"second_clip", 4 * time.Second, 1, true},
		{"last_clip", 16 * time.Second, 4, true},
		{"negative", -1 * time.Second, 0, false},
		{"at_total", 17 * time.Second, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip, ok := tl.ClipAt(tt.ts)
			if ok != tt.wantOK {
				t.Fatalf("ClipAt(%v) ok = %v, want %v", tt.ts, ok, tt.wantOK)
			}
			if ok && clip.Index != tt.wantClip {
				t.Errorf("ClipAt(%v) clip = %d, want %d", tt.ts, clip.Index, tt.wantClip)
			}
		})
	}
}
