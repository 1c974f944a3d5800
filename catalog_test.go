package xfade

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// builtinCount is the number of shipped transitions across all families.
const builtinCount = 22

func TestNewCatalogLoadsBuiltins(t *testing.T) {
	c := NewCatalog()
	if got := len(c.All()); got != builtinCount {
		t.Errorf("loaded %d transitions, want %d", got, builtinCount)
	}
}

func TestCatalogByID(t *testing.T) {
	c := NewCatalog()
	def, err := c.ByID("circle")
	if err != nil {
		t.Fatalf("ByID(circle): %v", err)
	}
	if def.ID != "circle" || def.Category != CategoryMask {
		t.Errorf("got %q in category %v, want circle in mask", def.ID, def.Category)
	}
	if def.Blend == nil {
		t.Error("circle has no blend function")
	}
	if def.Source == "" {
		t.Error("circle has no shader source")
	}

	if _, err := c.ByID("no_such"); !errors.Is(err, ErrUnknownTransition) {
		t.Errorf("unknown id: err = %v, want ErrUnknownTransition", err)
	}
}

func TestCatalogDefault(t *testing.T) {
	c := NewCatalog()
	def := c.Default()
	if def == nil || def.ID != DefaultTransitionID {
		t.Fatalf("Default = %+v, want id %q", def, DefaultTransitionID)
	}
}

func TestCatalogRegisterDuplicate(t *testing.T) {
	c := NewCatalog()
	err := c.Register(&Definition{ID: "fade", Blend: blendFade})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate register: err = %v, want ErrDuplicateID", err)
	}
}

func TestCatalogRegisterInvalid(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(&Definition{Blend: blendFade}); err == nil {
		t.Error("register without id: want error")
	}
	if err := c.Register(&Definition{ID: "custom"}); err == nil {
		t.Error("register without blend: want error")
	}
}

func TestCatalogByCategory(t *testing.T) {
	c := NewCatalog()
	tests := []struct {
		cat  Category
		want int
	}{
		{CategoryFade, 6},
		{CategoryMask, 5},
		{CategorySlide, 3},
		{CategoryWipe, 3},
		{CategoryZoom, 3},
		{CategoryFlip, 2},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			if got := len(c.ByCategory(tt.cat)); got != tt.want {
				t.Errorf("ByCategory(%v) = %d entries, want %d", tt.cat, got, tt.want)
			}
		})
	}
}

func TestCatalogFreePremiumPartition(t *testing.T) {
	c := NewCatalog()
	free, premium := c.Free(), c.Premium()
	if len(free)+len(premium) != len(c.All()) {
		t.Errorf("free (%d) + premium (%d) != all (%d)",
			len(free), len(premium), len(c.All()))
	}
	for _, def := range free {
		if def.Premium {
			t.Errorf("%q in Free() but marked premium", def.ID)
		}
	}
	def, _ := c.ByID("fade")
	if def.Premium {
		t.Error("default transition must be free")
	}
}

func TestCatalogGroupedMatchesByCategory(t *testing.T) {
	c := NewCatalog()
	g := c.Grouped()
	for cat, defs := range g {
		if got := len(c.ByCategory(cat)); got != len(defs) {
			t.Errorf("grouped[%v] = %d, ByCategory = %d", cat, len(defs), got)
		}
	}
}

func TestCatalogPrewarm(t *testing.T) {
	c := NewCatalog()
	if err := c.Prewarm(context.Background()); err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	// Idempotent.
	if err := c.Prewarm(context.Background()); err != nil {
		t.Fatalf("second Prewarm: %v", err)
	}
	if len(c.Grouped()) == 0 {
		t.Error("Grouped empty after prewarm")
	}
}

func TestCatalogPrewarmCancelled(t *testing.T) {
	c := NewCatalog()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Prewarm(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Prewarm: err = %v, want context.Canceled", err)
	}
	// Still serves reads by recomputing.
	if len(c.Grouped()) == 0 {
		t.Error("Grouped empty after cancelled prewarm")
	}
}

func TestCatalogRegisterInvalidatesGrouped(t *testing.T) {
	c := NewCatalog()
	if err := c.Prewarm(context.Background()); err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	before := len(c.Grouped()[CategoryFade])
	err := c.Register(&Definition{ID: "custom_fade", Category: CategoryFade, Blend: blendFade})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := len(c.Grouped()[CategoryFade]); got != before+1 {
		t.Errorf("grouped fade count after register = %d, want %d", got, before+1)
	}
}

func TestCatalogConcurrentReads(t *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := c.ByID("circle"); err != nil {
					t.Errorf("ByID: %v", err)
					return
				}
				_ = c.Grouped()
				_ = c.All()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Prewarm(context.Background())
	}()
	wg.Wait()
}
