package system

import (
	"log/slog"

	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

// ExpirySystem ends active projectiles that outlive their welcome: a
// ricochet explodes when its fuse runs out, and anything that never touched
// a block fizzles after the idle timeout.
type ExpirySystem struct {
	dispatcher *Dispatcher
}

func NewExpirySystem(d *Dispatcher) *ExpirySystem {
	return &ExpirySystem{dispatcher: d}
}

func (s *ExpirySystem) Update(w *ecs.World) {
	if s == nil || s.dispatcher == nil || w == nil {
		return
	}
	d := s.dispatcher
	active, ok := d.Active(w)
	if !ok {
		return
	}
	p, ok := ecs.Get(w, active, component.ProjectileComponent.Kind())
	if !ok || !p.Launched || p.Consumed || p.Attached {
		return
	}

	t := d.effects.Tuning()
	age := w.Timers().Now() - p.LaunchedAt

	if p.Variant == component.VariantRicochet && t.RicochetFuse > 0 && age >= t.RicochetFuse {
		pos, _ := bodyPosition(w, active)
		d.effects.AreaDestroy(w, pos, t.RicochetFuseRadius, false, component.VariantRicochet)
		d.effects.TriggerInRadius(w, pos, t.RicochetFuseRadius)
		d.Retire(w, active, true)
		return
	}

	if !p.HitBlock && t.IdleTimeout > 0 && age >= t.IdleTimeout {
		slog.Debug("projectile fizzled", "entity", active.String(), "variant", p.Variant.String(), "age", age)
		d.Retire(w, active, true)
	}
}
