package system

import (
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

// StartDrill pins a drilling projectile at head and starts its pass. The
// step timer moves the head and chews blocks; the duration timer ends the
// pass and arms the charge. When both fall due together the duration wins
// because it was scheduled first.
func (fx *Effects) StartDrill(w *ecs.World, e ecs.Entity, head, velocity cp.Vector, override *cp.Vector, target ecs.Entity) bool {
	if !fx.pin(w, e, head) {
		return false
	}
	t := fx.tuning
	timers := w.Timers()

	st := &component.DrillState{
		Phase:        component.DrillAttached,
		Head:         head,
		Direction:    DrillDirection(velocity, override),
		Total:        t.DrillDuration,
		StepInterval: t.DrillStepInterval,
		StepDistance: t.DrillStepDistance,
		StartedAt:    timers.Now(),
	}
	if b, ok := ecs.Get(w, target, component.BlockComponent.Kind()); ok && b.Active {
		st.Target = uint64(target)
		st.TargetHalfWidth = b.Size / 2
	}
	if err := ecs.Add(w, e, component.DrillStateComponent.Kind(), st); err != nil {
		return false
	}
	if err := ecs.Add(w, e, component.ChargeComponent.Kind(), &component.Charge{
		Kind:             component.ChargeDrill,
		Position:         head,
		DetonationRadius: t.DrillDetonationRadius,
		BlastRadius:      t.DrillBlastRadius,
	}); err != nil {
		return false
	}

	st.Phase = component.DrillDrilling
	st.DurationToken = uint64(timers.After(st.Total, fx.drillDone(w, e, st)))
	st.StepToken = uint64(timers.After(st.StepInterval, fx.drillStep(w, e, st)))
	return true
}

func (fx *Effects) drillStep(w *ecs.World, e ecs.Entity, st *component.DrillState) func() {
	return func() {
		if st.Phase != component.DrillDrilling {
			return
		}
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !w.IsAlive(e) || !ok || pb.Body == nil {
			fx.abortDrill(w, e, st)
			return
		}

		timers := w.Timers()
		st.Head = st.Head.Add(st.Direction.Mult(st.StepDistance))
		st.Steps++
		st.Elapsed = timers.Now() - st.StartedAt

		pb.Body.SetPosition(st.Head)
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			tr.X, tr.Y = st.Head.X, st.Head.Y
		}
		if c, ok := ecs.Get(w, e, component.ChargeComponent.Kind()); ok {
			c.Position = st.Head
		}

		radius := 0.75*st.StepDistance + st.TargetHalfWidth
		fx.areaDestroy(w, st.Head, radius, false, component.VariantDrilling, 0, false)

		if st.Target != 0 {
			if b, ok := ecs.Get(w, ecs.Entity(st.Target), component.BlockComponent.Kind()); !ok || !b.Active {
				st.Target = 0
			}
		}

		st.StepToken = uint64(timers.After(st.StepInterval, fx.drillStep(w, e, st)))
	}
}

func (fx *Effects) drillDone(w *ecs.World, e ecs.Entity, st *component.DrillState) func() {
	return func() {
		if st.Phase != component.DrillDrilling {
			return
		}
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !w.IsAlive(e) || !ok || pb.Body == nil {
			fx.abortDrill(w, e, st)
			return
		}

		timers := w.Timers()
		timers.Cancel(ecs.TimerToken(st.StepToken))
		timers.Cancel(ecs.TimerToken(st.DurationToken))
		st.StepToken, st.DurationToken = 0, 0
		st.Elapsed = st.Total
		st.Completed = true
		st.Phase = component.DrillDormant

		pb.Body.SetPosition(st.Head)
		if c, ok := ecs.Get(w, e, component.ChargeComponent.Kind()); ok {
			c.Position = st.Head
			c.Armed = true
		}
	}
}

// abortDrill ends a pass whose projectile vanished mid-drill. Nothing
// explodes.
func (fx *Effects) abortDrill(w *ecs.World, e ecs.Entity, st *component.DrillState) {
	timers := w.Timers()
	timers.Cancel(ecs.TimerToken(st.StepToken))
	timers.Cancel(ecs.TimerToken(st.DurationToken))
	st.StepToken, st.DurationToken = 0, 0
	st.Completed = true
	st.Phase = component.DrillTriggered
	if w.IsAlive(e) {
		w.DestroyEntity(e)
	}
	slog.Debug("drill aborted", "entity", e.String(), "steps", st.Steps)
}
