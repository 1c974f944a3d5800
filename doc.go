// Package xfade implements a transition compositing engine for slideshow and
// video export pipelines.
//
// # Overview
//
// xfade provides a catalog of parametric image transitions (fades, geometric
// mask reveals, slides, wipes, zooms, flips), a timing model that maps a
// global composition timestamp to a per-transition blend progress, and a
// compositing driver that produces one blended output frame per call. The
// reference renderer is pure Go and runs per-pixel on the CPU; an optional
// wgpu-backed accelerator executes the same transitions as WGSL compute
// shaders.
//
// # Quick Start
//
//	catalog := xfade.NewCatalog()
//	driver, err := xfade.NewDriver(catalog, 1280, 720)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer driver.Close()
//
//	window := xfade.RenderWindow{
//	    ClipDuration:       3 * time.Second,
//	    TransitionDuration: 500 * time.Millisecond,
//	}
//	frame, err := driver.RenderFrame(2800*time.Millisecond, xfade.FrameRequest{
//	    Pair:         xfade.ClipPair{Key: "0-1", From: imgA, To: imgB},
//	    TransitionID: "circle",
//	    Window:       window,
//	})
//
// # Architecture
//
// The engine is organized leaf-first:
//   - Catalog: registry of transition definitions, loaded once from embedded
//     shader sources, safe for concurrent reads.
//   - Blend functions: pure per-pixel mappings from (from, to, progress,
//     aspect, softness) to an output color.
//   - Resolver: timestamp → eased blend progress.
//   - TextureManager: owns the two source textures of the active transition,
//     uploaded through one shared code path.
//   - Driver: orchestrates the above per output frame.
//
// # Timing Model
//
// All timestamps are offsets on a single composition timeline. A transition
// window occupies the last TransitionDuration of its outgoing clip; progress
// is 0 before the window, 1 at or after its end, and linearly interpolated
// (then eased) in between. Timeline assembles windows for a whole slide
// sequence.
//
// # GPU Acceleration
//
// Import the gpu subpackage to enable wgpu compute acceleration:
//
//	import _ "github.com/gogpu/xfade/gpu"
//
// If no compatible GPU is available, registration is skipped and the driver
// uses the software compositor.
package xfade
