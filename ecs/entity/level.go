package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/prefabs"
	"github.com/milk9111/bombbreaker/registry"
)

// Level is what BuildLevel placed into the world.
type Level struct {
	Name     string
	Root     ecs.Entity
	Launcher cp.Vector
	Blocks   []ecs.Entity
}

// BuildLevel loads a level spec into the world. The root entity carries the
// bounds, the arsenal and the progress counters.
func BuildLevel(w *ecs.World, reg *registry.Registry, tuning component.Tuning, spec prefabs.LevelSpec) (*Level, error) {
	if reg == nil {
		reg = registry.Default()
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("level %s: width and height must be positive", spec.Name)
	}

	counts, err := spec.ArsenalCounts()
	if err != nil {
		return nil, err
	}
	arsenal := &component.Arsenal{Counts: counts}
	if spec.Select != "" {
		v, err := component.ParseVariant(spec.Select)
		if err != nil {
			return nil, fmt.Errorf("level %s select: %w", spec.Name, err)
		}
		arsenal.Selected = v
	}
	if next, ok := arsenal.Next(); ok {
		arsenal.Selected = next
	}

	root := ecs.CreateEntity(w)
	if err := ecs.Add(w, root, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  spec.Width,
		Height: spec.Height,
	}); err != nil {
		return nil, fmt.Errorf("level %s: add bounds: %w", spec.Name, err)
	}
	if err := ecs.Add(w, root, component.ArsenalComponent.Kind(), arsenal); err != nil {
		return nil, fmt.Errorf("level %s: add arsenal: %w", spec.Name, err)
	}

	blockSize := spec.BlockSize
	if blockSize <= 0 {
		blockSize = tuning.BlockSize
	}
	placed, err := spec.ResolveBlocks(blockSize)
	if err != nil {
		return nil, err
	}

	lvl := &Level{
		Name:     spec.Name,
		Root:     root,
		Launcher: cp.Vector{X: spec.Launcher.X, Y: spec.Launcher.Y},
		Blocks:   make([]ecs.Entity, 0, len(placed)),
	}
	if lvl.Launcher.X == 0 && lvl.Launcher.Y == 0 {
		lvl.Launcher = cp.Vector{X: spec.Width * 0.1, Y: spec.Height * 0.75}
	}

	total := 0
	for _, b := range placed {
		pos := cp.Vector{X: b.X, Y: b.Y}
		if !InBounds(w, pos) {
			return nil, fmt.Errorf("level %s: block %s at (%.1f, %.1f): %w", spec.Name, b.Type, b.X, b.Y, ErrOutOfBounds)
		}
		e, err := NewBlock(w, reg, b.X, b.Y, blockSize, b.Type)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", spec.Name, err)
		}
		lvl.Blocks = append(lvl.Blocks, e)
		if reg.IsDestructible(b.Type) {
			total++
		}
	}

	if err := ecs.Add(w, root, component.LevelProgressComponent.Kind(), &component.LevelProgress{
		Total:  total,
		Target: spec.TargetPercent,
	}); err != nil {
		return nil, fmt.Errorf("level %s: add progress: %w", spec.Name, err)
	}

	return lvl, nil
}
