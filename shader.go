package xfade

import (
	"bufio"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"
)

// builtinShaders holds the WGSL transition bodies shipped with the engine.
// Each file carries a metadata header (// xfade:key value lines) followed by
// a `fn transition(uv: vec2<f32>) -> vec4<f32>` body.
//
//go:embed shaders/*.wgsl
var builtinShaders embed.FS

// shaderMeta is the parsed metadata header of one shader source.
type shaderMeta struct {
	ID       string
	Name     string
	Category Category
	Premium  bool
	Duration time.Duration
}

// parseShaderSource extracts the metadata header from a shader source.
// Lines of the form `// xfade:key value` at the top of the file are parsed;
// parsing stops at the first non-comment line. A missing id is an error
// (the entry cannot be registered); every other field has a default.
func parseShaderSource(src string) (shaderMeta, error) {
	meta := shaderMeta{Duration: DefaultDuration}
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "//") {
			break
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "//"))
		if !strings.HasPrefix(rest, "xfade:") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(rest, "xfade:"), " ")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "id":
			meta.ID = value
		case "name":
			meta.Name = value
		case "category":
			cat, ok := ParseCategory(value)
			if !ok {
				Logger().Warn("shader: unknown category tag", "tag", value)
			}
			meta.Category = cat
		case "premium":
			meta.Premium = value == "true"
		case "duration":
			d, err := time.ParseDuration(value)
			if err != nil || d <= 0 {
				return meta, fmt.Errorf("xfade: bad duration %q: %w", value, err)
			}
			meta.Duration = d
		}
	}
	if meta.ID == "" {
		return meta, ErrMissingID
	}
	if meta.Name == "" {
		meta.Name = titleFromID(meta.ID)
	}
	return meta, nil
}

// titleFromID derives a display name from an id like "slide_left".
func titleFromID(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// loadBuiltins parses every embedded shader and pairs it with its software
// blend function. Malformed sources and sources without a Go counterpart are
// skipped with a warning; load never fails as a whole.
func loadBuiltins() []*Definition {
	entries, err := builtinShaders.ReadDir("shaders")
	if err != nil {
		Logger().Warn("shader: embedded catalog unreadable", "err", err)
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".wgsl") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		src, err := builtinShaders.ReadFile("shaders/" + name)
		if err != nil {
			Logger().Warn("shader: unreadable", "file", name, "err", err)
			continue
		}
		meta, err := parseShaderSource(string(src))
		if err != nil {
			Logger().Warn("shader: skipping", "file", name, "err", err)
			continue
		}
		blend, ok := builtinBlends[meta.ID]
		if !ok {
			Logger().Warn("shader: no software blend for id", "id", meta.ID)
			continue
		}
		defs = append(defs, &Definition{
			ID:              meta.ID,
			Name:            meta.Name,
			Category:        meta.Category,
			Premium:         meta.Premium,
			DefaultDuration: meta.Duration,
			Blend:           blend,
			Source:          string(src),
		})
	}
	return defs
}

// shaderPrelude is the compute-shader frame wrapped around every transition
// body. It provides the uniform parameters, the packed-pixel storage buffers,
// bilinear clamp-to-edge sampling for both sources and the accessor functions
// the bodies use. Pixels are packed RGBA8, little-endian, one u32 per pixel.
const shaderPrelude = `struct Params {
    width: u32,
    height: u32,
    progress: f32,
    aspect: f32,
    softness: f32,
    fill_r: f32,
    fill_g: f32,
    fill_b: f32,
    fill_a: f32,
    _pad0: f32,
    _pad1: f32,
    _pad2: f32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> from_pix: array<u32>;
@group(0) @binding(2) var<storage, read> to_pix: array<u32>;
@group(0) @binding(3) var<storage, read_write> out_pix: array<u32>;

fn progress() -> f32 { return params.progress; }
fn aspect() -> f32 { return params.aspect; }
fn softness() -> f32 { return params.softness; }
fn fill() -> vec4<f32> {
    return vec4<f32>(params.fill_r, params.fill_g, params.fill_b, params.fill_a);
}

fn unpackPixel(p: u32) -> vec4<f32> {
    return vec4<f32>(
        f32(p & 0xffu),
        f32((p >> 8u) & 0xffu),
        f32((p >> 16u) & 0xffu),
        f32((p >> 24u) & 0xffu)) / 255.0;
}

fn packPixel(c: vec4<f32>) -> u32 {
    let s = clamp(c, vec4<f32>(0.0), vec4<f32>(1.0)) * 255.0 + vec4<f32>(0.5);
    return u32(s.x) | (u32(s.y) << 8u) | (u32(s.z) << 16u) | (u32(s.w) << 24u);
}

fn texelFrom(x: i32, y: i32) -> vec4<f32> {
    let cx = clamp(x, 0, i32(params.width) - 1);
    let cy = clamp(y, 0, i32(params.height) - 1);
    return unpackPixel(from_pix[u32(cy) * params.width + u32(cx)]);
}

fn texelTo(x: i32, y: i32) -> vec4<f32> {
    let cx = clamp(x, 0, i32(params.width) - 1);
    let cy = clamp(y, 0, i32(params.height) - 1);
    return unpackPixel(to_pix[u32(cy) * params.width + u32(cx)]);
}

fn sampleFrom(uv: vec2<f32>) -> vec4<f32> {
    let x = clamp(uv.x, 0.0, 1.0) * f32(params.width) - 0.5;
    let y = clamp(uv.y, 0.0, 1.0) * f32(params.height) - 0.5;
    let x0 = i32(floor(x));
    let y0 = i32(floor(y));
    let fx = x - f32(x0);
    let fy = y - f32(y0);
    let top = mix(texelFrom(x0, y0), texelFrom(x0 + 1, y0), fx);
    let bottom = mix(texelFrom(x0, y0 + 1), texelFrom(x0 + 1, y0 + 1), fx);
    return mix(top, bottom, fy);
}

fn sampleTo(uv: vec2<f32>) -> vec4<f32> {
    let x = clamp(uv.x, 0.0, 1.0) * f32(params.width) - 0.5;
    let y = clamp(uv.y, 0.0, 1.0) * f32(params.height) - 0.5;
    let x0 = i32(floor(x));
    let y0 = i32(floor(y));
    let fx = x - f32(x0);
    let fy = y - f32(y0);
    let top = mix(texelTo(x0, y0), texelTo(x0 + 1, y0), fx);
    let bottom = mix(texelTo(x0, y0 + 1), texelTo(x0 + 1, y0 + 1), fx);
    return mix(top, bottom, fy);
}

fn hash21(p: vec2<f32>) -> f32 {
    return fract(sin(p.x * 127.1 + p.y * 311.7) * 43758.5453123);
}

fn envelope(p: f32) -> f32 {
    return sin(clamp(p, 0.0, 1.0) * 3.14159265358979);
}
`

// shaderEpilogue dispatches one invocation per output pixel.
const shaderEpilogue = `
@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= params.width || gid.y >= params.height) {
        return;
    }
    let size = vec2<f32>(f32(params.width), f32(params.height));
    let uv = (vec2<f32>(f32(gid.x), f32(gid.y)) + vec2<f32>(0.5)) / size;
    out_pix[gid.y * params.width + gid.x] = packPixel(transition(uv));
}
`

// WrapShader assembles a complete WGSL compute shader from a transition body.
// The body must define `fn transition(uv: vec2<f32>) -> vec4<f32>` and may
// call sampleFrom, sampleTo, progress, aspect, softness, fill, hash21 and
// envelope from the prelude.
func WrapShader(body string) string {
	return shaderPrelude + "\n" + body + shaderEpilogue
}
