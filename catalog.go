package xfade

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultTransitionID is the always-present fallback transition used when no
// selection is configured or a lookup misses.
const DefaultTransitionID = "fade"

// Catalog is a registry of transition definitions.
//
// A catalog is loaded once (NewCatalog) and read many times; reads are safe
// from any goroutine without external locking. Register may be called after
// load to add custom transitions; it invalidates derived caches.
//
// The grouped-by-category view can be pre-warmed off the hot path with
// Prewarm; all read methods also work before (or without) pre-warming by
// recomputing on demand.
type Catalog struct {
	mu   sync.RWMutex
	defs []*Definition          // insertion order
	byID map[string]*Definition

	// grouped holds the atomically published category grouping, or nil if
	// not yet computed. Readers either see the complete map or recompute.
	grouped atomic.Pointer[map[Category][]*Definition]
}

// NewCatalog creates a catalog populated with the builtin transitions from
// the embedded shader sources. Malformed entries are skipped with a warning;
// one bad shader never aborts the whole load. The default transition is
// guaranteed present.
func NewCatalog() *Catalog {
	c := &Catalog{byID: make(map[string]*Definition)}
	for _, def := range loadBuiltins() {
		if err := c.Register(def); err != nil {
			Logger().Warn("catalog: skipping builtin", "id", def.ID, "err", err)
		}
	}
	// The catalog contract requires a fallback transition even if its
	// shader asset failed to load.
	if _, err := c.ByID(DefaultTransitionID); err != nil {
		_ = c.Register(&Definition{
			ID:              DefaultTransitionID,
			Name:            "Cross Fade",
			Category:        CategoryFade,
			DefaultDuration: DefaultDuration,
			Blend:           blendFade,
		})
	}
	Logger().Info("catalog: loaded", "transitions", len(c.All()))
	return c
}

// Register adds a definition to the catalog. The definition must have a
// unique id and a blend function. Derived caches are invalidated.
func (c *Catalog) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byID[def.ID]; exists {
		return ErrDuplicateID
	}
	c.defs = append(c.defs, def)
	c.byID[def.ID] = def
	c.grouped.Store(nil)
	return nil
}

// All returns every registered definition in registration order.
// The returned slice is a copy and safe to retain.
func (c *Catalog) All() []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// ByID looks up a definition by its id.
func (c *Catalog) ByID(id string) (*Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.byID[id]
	if !ok {
		return nil, ErrUnknownTransition
	}
	return def, nil
}

// ByCategory returns all definitions with the given category,
// in registration order.
func (c *Catalog) ByCategory(cat Category) []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Definition
	for _, def := range c.defs {
		if def.Category == cat {
			out = append(out, def)
		}
	}
	return out
}

// Free returns all non-premium definitions.
func (c *Catalog) Free() []*Definition {
	return c.filter(func(d *Definition) bool { return !d.Premium })
}

// Premium returns all premium definitions.
func (c *Catalog) Premium() []*Definition {
	return c.filter(func(d *Definition) bool { return d.Premium })
}

func (c *Catalog) filter(keep func(*Definition) bool) []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Definition
	for _, def := range c.defs {
		if keep(def) {
			out = append(out, def)
		}
	}
	return out
}

// Grouped returns the definitions grouped by category. If a pre-warmed
// grouping has been published it is served directly; otherwise the grouping
// is computed on demand. The returned map must not be mutated.
func (c *Catalog) Grouped() map[Category][]*Definition {
	if g := c.grouped.Load(); g != nil {
		return *g
	}
	return c.computeGrouped()
}

// Default returns the catalog's fallback transition. It is guaranteed to
// exist by construction.
func (c *Catalog) Default() *Definition {
	def, err := c.ByID(DefaultTransitionID)
	if err != nil {
		// Unreachable unless the default was never registered; fail soft
		// with the first entry rather than a nil deref on the render path.
		all := c.All()
		if len(all) == 0 {
			return nil
		}
		return all[0]
	}
	return def
}

// Prewarm computes the grouped-by-category cache off the hot path and
// publishes it atomically. It is idempotent and safe to call concurrently;
// a cancelled prewarm publishes nothing and leaves the catalog fully
// functional (Grouped recomputes on demand).
func (c *Catalog) Prewarm(ctx context.Context) error {
	if c.grouped.Load() != nil {
		return nil
	}
	g := c.computeGrouped()
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	c.grouped.Store(&g)
	Logger().Debug("catalog: prewarm published", "categories", len(g))
	return nil
}

// computeGrouped builds a fresh grouping snapshot under the read lock.
func (c *Catalog) computeGrouped() map[Category][]*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g := make(map[Category][]*Definition)
	for _, def := range c.defs {
		g[def.Category] = append(g[def.Category], def)
	}
	return g
}
