package system

import (
	"log/slog"

	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

// Loader supplies projectiles to the dispatcher's active slot.
type Loader interface {
	// LoadNext creates the next unlaunched projectile.
	LoadNext(w *ecs.World) (ecs.Entity, error)
	// ShotsRemaining counts bombs not yet launched, including a loaded one.
	ShotsRemaining(w *ecs.World) int
}

type contactClass uint8

const (
	contactIgnored contactClass = iota
	contactBoundary
	contactProjectile
	contactBlock
)

// Dispatcher routes the active projectile's contacts to the effect routines
// and owns the active projectile slot.
type Dispatcher struct {
	effects  *Effects
	loader   Loader
	listener Listener

	active      ecs.Entity
	reloadToken ecs.TimerToken
}

func NewDispatcher(fx *Effects, loader Loader, listener Listener) *Dispatcher {
	return &Dispatcher{
		effects:  fx,
		loader:   loader,
		listener: orNop(listener),
	}
}

// Active returns the projectile in the slot if it is still alive.
func (d *Dispatcher) Active(w *ecs.World) (ecs.Entity, bool) {
	if d == nil || !d.active.Valid() || !w.IsAlive(d.active) {
		return 0, false
	}
	return d.active, true
}

// Reload replaces an unlaunched projectile in the slot with a fresh one from
// the loader. A launched projectile is left alone.
func (d *Dispatcher) Reload(w *ecs.World) error {
	if d == nil || d.loader == nil {
		return nil
	}
	if d.reloadToken != 0 {
		w.Timers().Cancel(d.reloadToken)
		d.reloadToken = 0
	}
	if e, ok := d.Active(w); ok {
		if p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind()); ok && p.Launched {
			return nil
		}
		w.DestroyEntity(e)
	}
	d.active = 0
	if d.loader.ShotsRemaining(w) <= 0 {
		return nil
	}
	e, err := d.loader.LoadNext(w)
	if err != nil {
		return err
	}
	d.active = e
	return nil
}

// ReloadPending reports whether the next shot is scheduled but not loaded.
func (d *Dispatcher) ReloadPending(w *ecs.World) bool {
	return d != nil && d.reloadToken != 0 && w.Timers().Pending(d.reloadToken)
}

// Busy reports whether anything launched is still resolving: a projectile in
// flight, a scheduled reload, a delayed effect or a drill mid-pass.
func (d *Dispatcher) Busy(w *ecs.World) bool {
	if d == nil {
		return false
	}
	if d.ReloadPending(w) || d.effects.Pending(w) {
		return true
	}
	if e, ok := d.Active(w); ok {
		if p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind()); ok && p.Launched && !p.Consumed {
			return true
		}
	}
	busy := false
	ecs.ForEach(w, component.DrillStateComponent.Kind(), func(_ ecs.Entity, st *component.DrillState) {
		if st.Phase == component.DrillDrilling {
			busy = true
		}
	})
	return busy
}

func (d *Dispatcher) Update(w *ecs.World) {
	if d == nil || w == nil {
		return
	}
	contacts := w.Contacts().Drain()

	active, ok := d.Active(w)
	if !ok {
		return
	}
	p, ok := ecs.Get(w, active, component.ProjectileComponent.Kind())
	if !ok || !p.Launched {
		return
	}
	wasAttached := p.Attached

	for _, c := range contacts {
		other, normal, ok := c.Other(active)
		if !ok {
			continue
		}
		if !other.Valid() || !w.IsAlive(other) {
			slog.Debug("dispatch: skipping malformed contact", "active", active.String(), "other", other.String())
			continue
		}
		if p.Consumed && !p.Variant.Deferred() {
			slog.Debug("dispatch: projectile already consumed", "active", active.String(), "variant", p.Variant.String())
			continue
		}

		hit := Hit{Other: other, Point: c.Point, Normal: normal, Velocity: c.Velocity(active)}
		switch classify(w, other) {
		case contactBoundary:
			if p.Variant == component.VariantRicochet {
				d.effects.Bounce(w, active, hit)
				p.BounceCount++
			}
		case contactProjectile:
			if p.Variant.Explosive() {
				d.effects.Resolve(w, active, p, hit)
			}
		case contactBlock:
			d.hitBlock(w, active, p, hit)
		case contactIgnored:
		}
	}

	switch {
	case p.Consumed && !p.Variant.Deferred():
		d.Retire(w, active, true)
	case p.Attached && !wasAttached:
		d.Retire(w, active, false)
	}
}

func (d *Dispatcher) hitBlock(w *ecs.World, active ecs.Entity, p *component.Projectile, hit Hit) {
	b, ok := ecs.Get(w, hit.Other, component.BlockComponent.Kind())
	if !ok {
		return
	}
	if b.Type == component.BlockSpringy && p.Variant.BouncesOffSpringy() && !p.Attached {
		d.effects.Bounce(w, active, hit)
		return
	}
	p.HitBlock = true
	if b.Type == component.BlockExplosive && p.Variant.ChainsExplosiveBlocks() {
		d.effects.ExplosiveBlock(w, hit.Other)
	}
	d.effects.Resolve(w, active, p, hit)
}

// Retire clears the slot after the active projectile resolved. A consumed
// projectile is removed from the world; an attached one stays as a charge.
// The next shot is scheduled while bombs remain.
func (d *Dispatcher) Retire(w *ecs.World, e ecs.Entity, consumed bool) {
	if d == nil {
		return
	}
	if consumed {
		variant := component.VariantNone
		if p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind()); ok {
			p.Consumed = true
			variant = p.Variant
		}
		w.DestroyEntity(e)
		d.listener.ProjectileConsumed(variant)
	}
	if d.active == e {
		d.active = 0
	}
	d.scheduleNext(w)
}

func (d *Dispatcher) scheduleNext(w *ecs.World) {
	if d.loader == nil || d.loader.ShotsRemaining(w) <= 0 || d.ReloadPending(w) {
		return
	}
	delay := d.effects.Tuning().NextShotDelay
	d.reloadToken = w.Timers().After(delay, func() {
		d.reloadToken = 0
		if err := d.Reload(w); err != nil {
			slog.Warn("dispatch: load next projectile", "err", err)
		}
	})
}

func classify(w *ecs.World, e ecs.Entity) contactClass {
	switch {
	case ecs.Has(w, e, component.LevelBoundsComponent.Kind()):
		return contactBoundary
	case ecs.Has(w, e, component.ProjectileComponent.Kind()):
		return contactProjectile
	case ecs.Has(w, e, component.BlockComponent.Kind()):
		b, _ := ecs.Get(w, e, component.BlockComponent.Kind())
		if b.Active {
			return contactBlock
		}
	}
	return contactIgnored
}
