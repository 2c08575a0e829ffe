package system

import (
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

// TriggerInRadius detonates every armed charge whose own detonation radius
// reaches center; the caller's radius does not widen or narrow the search.
// Charges are collected and flagged first, then fired, so a cascade started
// by one detonation never sees a charge twice. It returns the number of
// charges fired by this call, not counting cascades.
func (fx *Effects) TriggerInRadius(w *ecs.World, center cp.Vector, radius float64) int {
	if w == nil {
		return 0
	}
	var fire []ecs.Entity
	ecs.ForEach(w, component.ChargeComponent.Kind(), func(e ecs.Entity, c *component.Charge) {
		if !c.Armed || c.Triggered {
			return
		}
		if center.Distance(c.Position) > c.DetonationRadius {
			return
		}
		c.Triggered = true
		fire = append(fire, e)
	})

	if len(fire) > 0 {
		slog.Debug("charges triggered", "x", center.X, "y", center.Y, "radius", radius, "count", len(fire))
	}
	for _, e := range fire {
		fx.detonate(w, e)
	}
	return len(fire)
}

// detonate runs the terminal explosion of a triggered charge and removes its
// projectile.
func (fx *Effects) detonate(w *ecs.World, e ecs.Entity) {
	c, ok := ecs.Get(w, e, component.ChargeComponent.Kind())
	if !ok {
		return
	}
	charge := *c

	variant := component.VariantSticky
	harsh := false
	if charge.Kind == component.ChargeDrill {
		variant = component.VariantDrilling
		harsh = true
		if st, ok := ecs.Get(w, e, component.DrillStateComponent.Kind()); ok {
			if st.ExternallyTriggered {
				return
			}
			st.ExternallyTriggered = true
			st.Phase = component.DrillTriggered
			charge.Position = st.Head
		}
	}

	w.DestroyEntity(e)
	fx.listener.ProjectileConsumed(variant)
	fx.AreaDestroy(w, charge.Position, charge.BlastRadius, harsh, variant)
	fx.TriggerInRadius(w, charge.Position, charge.BlastRadius)
}
