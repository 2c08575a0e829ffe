package entity

import (
	"fmt"

	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/registry"
)

// NewBlock places a square block of the given type centered on (x, y).
func NewBlock(w *ecs.World, reg *registry.Registry, x, y, size float64, t component.BlockType) (ecs.Entity, error) {
	if size <= 0 {
		return 0, fmt.Errorf("block: size must be positive, got %.2f", size)
	}
	if reg == nil {
		reg = registry.Default()
	}

	return assemble(w,
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
				return fmt.Errorf("block: add transform: %w", err)
			}
			return nil
		},
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.BlockComponent.Kind(), &component.Block{
				Type:      t,
				HitPoints: reg.HitPoints(t),
				Active:    true,
				Size:      size,
			}); err != nil {
				return fmt.Errorf("block: add block: %w", err)
			}
			return nil
		},
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
				Width:    size,
				Height:   size,
				Friction: 0.1,
				Static:   true,
			}); err != nil {
				return fmt.Errorf("block: add physics body: %w", err)
			}
			return nil
		},
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Width: size, Height: size}); err != nil {
				return fmt.Errorf("block: add sprite: %w", err)
			}
			return nil
		},
	)
}
