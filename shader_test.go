package xfade

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseShaderSource(t *testing.T) {
	src := `// xfade:id circle
// xfade:name Circle Reveal
// xfade:category mask
// xfade:premium true
// xfade:duration 650ms

fn transition(uv: vec2<f32>) -> vec4<f32> { return sampleTo(uv); }
`
	meta, err := parseShaderSource(src)
	if err != nil {
		t.Fatalf("parseShaderSource: %v", err)
	}
	if meta.ID != "circle" || meta.Name != "Circle Reveal" {
		t.Errorf("id/name = %q/%q", meta.ID, meta.Name)
	}
	if meta.Category != CategoryMask {
		t.Errorf("category = %v, want mask", meta.Category)
	}
	if !meta.Premium {
		t.Error("premium = false, want true")
	}
	if meta.Duration != 650*time.Millisecond {
		t.Errorf("duration = %v, want 650ms", meta.Duration)
	}
}

func TestParseShaderSourceDefaults(t *testing.T) {
	meta, err := parseShaderSource("// xfade:id slide_left\nfn transition() {}\n")
	if err != nil {
		t.Fatalf("parseShaderSource: %v", err)
	}
	if meta.Name != "Slide Left" {
		t.Errorf("derived name = %q, want %q", meta.Name, "Slide Left")
	}
	if meta.Duration != DefaultDuration {
		t.Errorf("duration = %v, want default", meta.Duration)
	}
	if meta.Premium {
		t.Error("premium defaults true, want false")
	}
	if meta.Category != CategoryUncategorized {
		t.Errorf("category = %v, want uncategorized", meta.Category)
	}
}

func TestParseShaderSourceMissingID(t *testing.T) {
	_, err := parseShaderSource("// xfade:name Nameless\nfn transition() {}\n")
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("err = %v, want ErrMissingID", err)
	}
}

func TestParseShaderSourceStopsAtCode(t *testing.T) {
	// Metadata after the first code line is ignored.
	src := "// xfade:id a\nfn transition() {}\n// xfade:premium true\n"
	meta, err := parseShaderSource(src)
	if err != nil {
		t.Fatalf("parseShaderSource: %v", err)
	}
	if meta.Premium {
		t.Error("metadata after code was parsed")
	}
}

func TestParseShaderSourceBadDuration(t *testing.T) {
	if _, err := parseShaderSource("// xfade:id a\n// xfade:duration soon\n"); err == nil {
		t.Error("bad duration: want error")
	}
	if _, err := parseShaderSource("// xfade:id a\n// xfade:duration -1s\n"); err == nil {
		t.Error("negative duration: want error")
	}
}

func TestLoadBuiltinsComplete(t *testing.T) {
	defs := loadBuiltins()
	if len(defs) != builtinCount {
		t.Fatalf("loadBuiltins = %d entries, want %d", len(defs), builtinCount)
	}
	seen := make(map[string]bool)
	for _, def := range defs {
		if seen[def.ID] {
			t.Errorf("duplicate id %q", def.ID)
		}
		seen[def.ID] = true
		if def.Blend == nil {
			t.Errorf("%q: nil blend", def.ID)
		}
		if def.Source == "" {
			t.Errorf("%q: empty source", def.ID)
		}
		if def.Category == CategoryUncategorized {
			t.Errorf("%q: uncategorized", def.ID)
		}
		if !strings.Contains(def.Source, "fn transition(uv: vec2<f32>) -> vec4<f32>") {
			t.Errorf("%q: source missing transition entry point", def.ID)
		}
	}
	for id := range builtinBlends {
		if !seen[id] {
			t.Errorf("blend %q has no shader source", id)
		}
	}
}

func TestWrapShader(t *testing.T) {
	body := "fn transition(uv: vec2<f32>) -> vec4<f32> { return sampleFrom(uv); }"
	full := WrapShader(body)
	for _, want := range []string{
		"struct Params",
		"fn sampleFrom(uv: vec2<f32>) -> vec4<f32>",
		"fn sampleTo(uv: vec2<f32>) -> vec4<f32>",
		"fn progress() -> f32",
		"fn aspect() -> f32",
		"fn softness() -> f32",
		"fn fill() -> vec4<f32>",
		"@compute @workgroup_size(16, 16)",
		body,
	} {
		if !strings.Contains(full, want) {
			t.Errorf("wrapped shader missing %q", want)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(full), "}") {
		t.Error("wrapped shader truncated")
	}
}

func TestTitleFromID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"fade", "Fade"},
		{"slide_left", "Slide Left"},
		{"fade_gray", "Fade Gray"},
	}
	for _, tt := range tests {
		if got := titleFromID(tt.in); got != tt.want {
			t.Errorf("titleFromID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, cat := range []Category{
		CategoryFade, CategoryMask, CategorySlide,
		CategoryWipe, CategoryZoom, CategoryFlip,
	} {
		got, ok := ParseCategory(cat.String())
		if !ok || got != cat {
			t.Errorf("ParseCategory(%q) = %v, %v", cat.String(), got, ok)
		}
	}
	if _, ok := ParseCategory("glitter"); ok {
		t.Error("unknown tag parsed ok")
	}
}
