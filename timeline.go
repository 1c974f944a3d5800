package xfade

import (
	"errors"
	"time"
)

// Slide describes one clip of a slideshow project: how long the image is
// shown and which transition leads into the next clip. The last slide's
// transition fields are ignored (there is no next clip to blend into).
type Slide struct {
	Duration           time.Duration
	TransitionID       string
	TransitionDuration time.Duration
}

// ErrEmptyTimeline is returned when building a timeline with no slides.
var ErrEmptyTimeline = errors.New("xfade: timeline has no slides")

// Clip is one scheduled slide on the composition timeline, with its
// resolved transition window into the next clip.
type Clip struct {
	Index        int
	Window       RenderWindow
	TransitionID string
}

// Timeline schedules a slide sequence on the global composition timeline.
//
// Each transition window occupies its own span: clip i+1 starts at
// clip i's TransitionEnd plus the transition duration, so the total runs
// Σ clip durations + Σ transition durations. During a window both clips
// blend; between windows a single clip shows.
type Timeline struct {
	clips []Clip
	total time.Duration
}

// BuildTimeline lays out the slides back to back. A transition longer than
// its clip violates the window invariant and is clamped to half the clip
// duration with a warning, mirroring how export pipelines shorten fades for
// very short clips.
func BuildTimeline(slides []Slide) (*Timeline, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyTimeline
	}
	clips := make([]Clip, len(slides))
	start := time.Duration(0)
	for i, s := range slides {
		if s.Duration <= 0 {
			return nil, errors.New("xfade: slide duration must be positive")
		}
		td := s.TransitionDuration
		if i == len(slides)-1 {
			td = 0 // no outgoing transition for the final clip
		} else if td > s.Duration {
			td = s.Duration / 2
			Logger().Warn("timeline: transition clamped to half clip duration",
				"slide", i, "clip", s.Duration, "transition", s.TransitionDuration)
		}
		clips[i] = Clip{
			Index: i,
			Window: RenderWindow{
				ClipStart:          start,
				ClipDuration:       s.Duration,
				TransitionDuration: td,
			},
			TransitionID: s.TransitionID,
		}
		start += s.Duration + td
	}
	return &Timeline{clips: clips, total: start}, nil
}

// Total returns the full timeline duration, transitions included.
func (t *Timeline) Total() time.Duration {
	return t.total
}

// Clips returns the scheduled clips in order. The slice must not be mutated.
func (t *Timeline) Clips() []Clip {
	return t.clips
}

// ClipAt returns the clip whose span (clip plus its transition window)
// covers ts, and false when ts is outside the timeline.
func (t *Timeline) ClipAt(ts time.Duration) (Clip, bool) {
	if ts < 0 || ts >= t.total {
		return Clip{}, false
	}
	for i, c := range t.clips {
		end := c.Window.TransitionEnd() + c.Window.TransitionDuration
		if ts < end || i == len(t.clips)-1 {
			return c, true
		}
	}
	return t.clips[len(t.clips)-1], true
}

// WindowAt returns the clip whose transition window contains ts, and false
// when ts falls outside every window (a single clip is showing).
func (t *Timeline) WindowAt(ts time.Duration) (Clip, bool) {
	for _, c := range t.clips {
		if c.Window.TransitionDuration > 0 && c.Window.Contains(ts) {
			return c, true
		}
	}
	return Clip{}, false
}
