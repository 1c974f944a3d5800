package xfade

import "errors"

// Errors returned by the xfade core.
var (
	// ErrUnknownTransition indicates a catalog lookup miss. The Driver never
	// surfaces this from RenderFrame: it substitutes the catalog default and
	// logs a warning instead.
	ErrUnknownTransition = errors.New("xfade: unknown transition id")

	// ErrTextureLoad indicates a source image could not be uploaded
	// (nil, empty, or undecodable). A frame render inside a transition
	// window fails loudly with this error, since compositing cannot
	// proceed without both sources.
	ErrTextureLoad = errors.New("xfade: texture load failed")

	// ErrMissingID indicates a shader source without an id metadata line.
	// Such entries are skipped during catalog load.
	ErrMissingID = errors.New("xfade: shader metadata missing id")

	// ErrDuplicateID indicates an attempt to register a definition whose id
	// is already present in the catalog.
	ErrDuplicateID = errors.New("xfade: duplicate transition id")

	// ErrDriverClosed is returned by RenderFrame after Close.
	ErrDriverClosed = errors.New("xfade: driver is closed")

	// ErrFallbackToCPU indicates the GPU accelerator cannot handle this
	// transition or frame. The driver transparently falls back to the
	// software compositor.
	ErrFallbackToCPU = errors.New("xfade: falling back to software compositing")
)
