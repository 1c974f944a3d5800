package xfade

import (
	"fmt"
	"time"
)

// Category classifies a transition by its blend family.
type Category int

const (
	// CategoryUncategorized is the default for entries without a category tag.
	CategoryUncategorized Category = iota
	// CategoryFade covers weighted-mix transitions, including variants with
	// transient brightness, desaturation, grain or vignette effects.
	CategoryFade
	// CategoryMask covers geometric reveals driven by a distance field
	// (circle, diamond, star, heart, square grid).
	CategoryMask
	// CategorySlide covers transitions that translate the sampling
	// coordinate so the incoming image pushes the outgoing one out.
	CategorySlide
	// CategoryWipe covers transitions with a travelling soft edge that
	// switches which source is sampled.
	CategoryWipe
	// CategoryZoom covers scale and rotation transforms about the frame
	// center combined with a windowed cross-fade.
	CategoryZoom
	// CategoryFlip covers two-phase axis-collapse transitions.
	CategoryFlip
)

// String returns the category tag as used in shader metadata.
func (c Category) String() string {
	switch c {
	case CategoryFade:
		return "fade"
	case CategoryMask:
		return "mask"
	case CategorySlide:
		return "slide"
	case CategoryWipe:
		return "wipe"
	case CategoryZoom:
		return "zoom"
	case CategoryFlip:
		return "flip"
	default:
		return "uncategorized"
	}
}

// ParseCategory maps a metadata tag to a Category.
// Unknown tags map to CategoryUncategorized with ok=false.
func ParseCategory(tag string) (Category, bool) {
	switch tag {
	case "fade":
		return CategoryFade, true
	case "mask":
		return CategoryMask, true
	case "slide":
		return CategorySlide, true
	case "wipe":
		return CategoryWipe, true
	case "zoom":
		return CategoryZoom, true
	case "flip":
		return CategoryFlip, true
	default:
		return CategoryUncategorized, false
	}
}

// Sampler reads a color at normalized coordinates u, v ∈ [0, 1].
// Coordinates outside the unit square are clamped to the edge.
type Sampler interface {
	Sample(u, v float64) RGBA
}

// Frame bundles the immutable inputs for one composited frame: the two
// source samplers, the eased blend progress, the output aspect ratio
// (width / height) and the edge softness used by mask and wipe transitions.
//
// Fill is the color rendered where a transform maps a pixel outside both
// sources (flip family); it defaults to Black.
//
// A Frame is owned by the Driver for the duration of one RenderFrame call
// and must not be retained by blend functions.
type Frame struct {
	From     Sampler
	To       Sampler
	Progress float64
	Aspect   float64
	Softness float64
	Fill     RGBA
}

// BlendFunc is a pure per-pixel transition function. It maps the normalized
// output coordinate (u, v) to a color given the frame inputs. Implementations
// must be deterministic and free of shared mutable state: the driver invokes
// them concurrently across rows and frames.
type BlendFunc func(fr *Frame, u, v float64) RGBA

// DefaultDuration is the transition duration assumed when a definition's
// shader metadata does not specify one.
const DefaultDuration = 500 * time.Millisecond

// Definition is an immutable transition catalog entry. Definitions are
// constructed at catalog load time and never mutated afterwards.
type Definition struct {
	// ID is the unique catalog key, e.g. "circle".
	ID string
	// Name is the human-readable display name.
	Name string
	// Category is the blend family tag.
	Category Category
	// Premium marks entries gated behind a paid tier in the host app.
	Premium bool
	// DefaultDuration is used when the project settings carry no duration.
	DefaultDuration time.Duration
	// Blend is the software (per-pixel) implementation.
	Blend BlendFunc
	// Source is the raw WGSL function body for the GPU path, including its
	// metadata header. Empty for definitions registered without a shader.
	Source string
}

// Validate reports whether the definition can be registered.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("xfade: definition has no id: %w", ErrMissingID)
	}
	if d.Blend == nil {
		return fmt.Errorf("xfade: definition %q has no blend function", d.ID)
	}
	return nil
}
