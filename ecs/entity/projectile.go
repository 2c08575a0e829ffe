package entity

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

var (
	ErrOutOfBounds     = errors.New("entity: position outside level bounds")
	ErrNotProjectile   = errors.New("entity: not a projectile")
	ErrAlreadyLaunched = errors.New("entity: projectile already launched")
)

// cp.NewBody bumps an unguarded package counter.
var bodyMu sync.Mutex

func newBody(mass, moment float64) *cp.Body {
	bodyMu.Lock()
	defer bodyMu.Unlock()
	return cp.NewBody(mass, moment)
}

// assemble creates an entity and runs each step on it. A failed step
// destroys the entity so no partial one is left behind.
func assemble(w *ecs.World, steps ...func(ecs.Entity) error) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	for _, step := range steps {
		if err := step(e); err != nil {
			w.DestroyEntity(e)
			return 0, err
		}
	}
	return e, nil
}

// NewProjectile creates an unlaunched bomb of the given variant centered on
// pos. The body is built here but only enters the physics space once the
// projectile is launched.
func NewProjectile(w *ecs.World, pos cp.Vector, variant component.Variant, tuning component.Tuning) (ecs.Entity, error) {
	if !variant.Valid() {
		return 0, fmt.Errorf("projectile: %w: %d", component.ErrUnknownVariant, variant)
	}
	if !InBounds(w, pos) {
		return 0, fmt.Errorf("projectile: create at (%.1f, %.1f): %w", pos.X, pos.Y, ErrOutOfBounds)
	}

	phys := tuning.PhysicsFor(variant)
	radius := tuning.ProjectileRadius
	if radius <= 0 {
		radius = component.DefaultTuning().ProjectileRadius
	}
	mass := phys.Density * math.Pi * radius * radius
	if mass <= 0 {
		mass = 1
	}

	body := newBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(pos)
	damping := 1 - phys.FrictionAir
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, _ float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity, damping, dt)
	})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetElasticity(phys.Restitution)
	shape.SetFriction(phys.Friction)

	return assemble(w,
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
				return fmt.Errorf("projectile: add transform: %w", err)
			}
			return nil
		},
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
				Body:        body,
				Shape:       shape,
				Radius:      radius,
				Mass:        mass,
				Friction:    phys.Friction,
				Elasticity:  phys.Restitution,
				FrictionAir: phys.FrictionAir,
			}); err != nil {
				return fmt.Errorf("projectile: add physics body: %w", err)
			}
			return nil
		},
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Variant: variant}); err != nil {
				return fmt.Errorf("projectile: add projectile: %w", err)
			}
			return nil
		},
		func(e ecs.Entity) error {
			if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
				Width:  tuning.DisplaySize,
				Height: tuning.DisplaySize,
				Depth:  tuning.Depth,
			}); err != nil {
				return fmt.Errorf("projectile: add sprite: %w", err)
			}
			return nil
		},
	)
}

// Launch applies an instantaneous impulse to an unlaunched projectile and
// stamps the launch time.
func Launch(w *ecs.World, e ecs.Entity, impulse cp.Vector, now time.Duration) error {
	if !w.IsAlive(e) {
		return fmt.Errorf("projectile: launch %v: %w", e, component.ErrEntityNotAlive)
	}
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		return fmt.Errorf("projectile: launch %v: %w", e, ErrNotProjectile)
	}
	if p.Launched {
		return fmt.Errorf("projectile: launch %v: %w", e, ErrAlreadyLaunched)
	}
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return fmt.Errorf("projectile: launch %v: missing body", e)
	}

	mass := pb.Body.Mass()
	if mass <= 0 || math.IsInf(mass, 1) {
		mass = 1
	}
	pb.Body.SetVelocityVector(impulse.Mult(1 / mass))
	p.Launched = true
	p.LaunchedAt = now
	return nil
}

// LaunchImpulse turns an aim direction and power into an impulse vector.
// Power is clamped to [0, maxPower] and a zero direction yields no impulse.
func LaunchImpulse(direction cp.Vector, power, maxPower float64) cp.Vector {
	if direction.LengthSq() == 0 {
		return cp.Vector{}
	}
	if power < 0 {
		power = 0
	}
	if maxPower > 0 && power > maxPower {
		power = maxPower
	}
	return direction.Normalize().Mult(power)
}

// Position returns the current center of e from its body, falling back to the
// transform.
func Position(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		return pb.Body.Position(), true
	}
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return cp.Vector{X: tr.X, Y: tr.Y}, true
	}
	return cp.Vector{}, false
}

// InBounds reports whether pos lies inside the level bounds. A world without
// bounds accepts every position.
func InBounds(w *ecs.World, pos cp.Vector) bool {
	be, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return true
	}
	b, ok := ecs.Get(w, be, component.LevelBoundsComponent.Kind())
	if !ok || b.Width <= 0 || b.Height <= 0 {
		return true
	}
	return pos.X >= 0 && pos.Y >= 0 && pos.X <= b.Width && pos.Y <= b.Height
}
