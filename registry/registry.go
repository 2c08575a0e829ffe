// Package registry holds per-block-type metadata consumed by the effect
// systems.
package registry

import (
	"fmt"
	"math"

	"github.com/milk9111/bombbreaker/ecs/component"
)

// Unbounded is the hit point sentinel for blocks that never break.
const Unbounded = math.MaxInt32

// Entry describes one block type. Armored blocks lose a single hit point to
// ordinary blasts and are only destroyed outright by harsh effects.
type Entry struct {
	HitPoints    int
	Destructible bool
	Armored      bool
}

// Registry is an immutable lookup table keyed by block type.
type Registry struct {
	entries map[component.BlockType]Entry
}

// Default returns the stock table.
func Default() *Registry {
	return &Registry{entries: map[component.BlockType]Entry{
		component.BlockStandard:       {HitPoints: 1, Destructible: true},
		component.BlockReinforced:     {HitPoints: 2, Destructible: true, Armored: true},
		component.BlockExplosive:      {HitPoints: 1, Destructible: true},
		component.BlockIndestructible: {HitPoints: Unbounded, Destructible: false},
		component.BlockSpringy:        {HitPoints: 1, Destructible: true},
	}}
}

// New builds a registry from the stock table with overrides applied.
// Indestructible entries always get the Unbounded sentinel.
func New(overrides map[component.BlockType]Entry) (*Registry, error) {
	r := Default()
	for t, e := range overrides {
		if int(t) >= len(component.BlockTypes()) {
			return nil, fmt.Errorf("registry: override %s: %w", t, component.ErrUnknownBlockType)
		}
		if !e.Destructible {
			e.HitPoints = Unbounded
		}
		if e.HitPoints <= 0 {
			return nil, fmt.Errorf("registry: override %s: hit points must be positive, got %d", t, e.HitPoints)
		}
		r.entries[t] = e
	}
	return r, nil
}

// Lookup returns the entry for t.
func (r *Registry) Lookup(t component.BlockType) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.entries[t]
	return e, ok
}

// HitPoints returns the starting hit points of t. Unknown types fall back to
// Standard.
func (r *Registry) HitPoints(t component.BlockType) int {
	if e, ok := r.Lookup(t); ok {
		return e.HitPoints
	}
	e, _ := r.Lookup(component.BlockStandard)
	if e.HitPoints <= 0 {
		return 1
	}
	return e.HitPoints
}

// IsDestructible reports whether damage can ever remove a block of type t.
func (r *Registry) IsDestructible(t component.BlockType) bool {
	e, ok := r.Lookup(t)
	return ok && e.Destructible
}

// IsArmored reports whether t needs a harsh effect to be destroyed outright.
func (r *Registry) IsArmored(t component.BlockType) bool {
	e, ok := r.Lookup(t)
	return ok && e.Armored
}
