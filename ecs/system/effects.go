package system

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/registry"
)

// Hit is one routed contact as seen from the active projectile. Normal points
// away from the struck surface, toward the projectile.
type Hit struct {
	Other    ecs.Entity
	Point    cp.Vector
	Normal   cp.Vector
	Velocity cp.Vector
}

// Outcome is what a variant routine did to its projectile.
type Outcome struct {
	Consumed bool
	Attached bool
}

// Effects holds the per-variant resolution routines and the shared area
// destruction primitive. All methods run on the simulation goroutine.
type Effects struct {
	registry *registry.Registry
	tuning   component.Tuning
	rng      *rand.Rand
	listener Listener

	// scheduled holds timers for effects still to land.
	scheduled []ecs.TimerToken
}

func NewEffects(reg *registry.Registry, tuning component.Tuning, rng *rand.Rand, listener Listener) *Effects {
	if reg == nil {
		reg = registry.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &Effects{
		registry: reg,
		tuning:   tuning,
		rng:      rng,
		listener: orNop(listener),
	}
}

func (fx *Effects) Tuning() component.Tuning {
	return fx.tuning
}

func (fx *Effects) Registry() *registry.Registry {
	return fx.registry
}

// Pending reports whether a scheduled cluster secondary or piercer segment
// has yet to run. Fired and cancelled timers are dropped as it goes.
func (fx *Effects) Pending(w *ecs.World) bool {
	if fx == nil || w == nil {
		return false
	}
	live := fx.scheduled[:0]
	for _, tok := range fx.scheduled {
		if w.Timers().Pending(tok) {
			live = append(live, tok)
		}
	}
	fx.scheduled = live
	return len(live) > 0
}

func (fx *Effects) schedule(w *ecs.World, delay time.Duration, fn func()) ecs.TimerToken {
	tok := w.Timers().After(delay, fn)
	fx.scheduled = append(fx.scheduled, tok)
	return tok
}

// Resolve runs the routine for p's variant against one contact.
func (fx *Effects) Resolve(w *ecs.World, e ecs.Entity, p *component.Projectile, hit Hit) Outcome {
	if p == nil || p.Consumed && !p.Variant.Deferred() {
		return Outcome{}
	}
	pos, ok := bodyPosition(w, e)
	if !ok {
		pos = hit.Point
	}

	switch p.Variant {
	case component.VariantBlast:
		fx.Blast(w, pos)
		p.Consumed = true
	case component.VariantPiercer:
		fx.Piercer(w, pos, hit.Velocity, nil)
		p.Consumed = true
	case component.VariantCluster:
		fx.Cluster(w, pos)
		p.Consumed = true
	case component.VariantHeavyImpact:
		fx.HeavyImpact(w, pos)
		p.Consumed = true
	case component.VariantSticky:
		if p.Attached {
			return Outcome{Attached: true}
		}
		if !fx.AttachSticky(w, e, pos) {
			return Outcome{}
		}
	case component.VariantDrilling:
		if p.Attached {
			return Outcome{Attached: true}
		}
		target := ecs.Entity(0)
		if ecs.Has(w, hit.Other, component.BlockComponent.Kind()) {
			target = hit.Other
		}
		if !fx.StartDrill(w, e, pos, hit.Velocity, nil, target) {
			return Outcome{}
		}
	case component.VariantRicochet:
		if ecs.Has(w, hit.Other, component.BlockComponent.Kind()) {
			fx.RicochetBlock(w, e, hit)
		}
	case component.VariantNone:
		return Outcome{}
	}
	return Outcome{Consumed: p.Consumed, Attached: p.Attached}
}

// Blast destroys blocks around center and wakes dormant charges in range.
func (fx *Effects) Blast(w *ecs.World, center cp.Vector) int {
	n := fx.AreaDestroy(w, center, fx.tuning.BlastRadius, false, component.VariantBlast)
	fx.TriggerInRadius(w, center, fx.tuning.BlastRadius)
	return n
}

// HeavyImpact runs a harsh area destruction and triggers charges in a wider
// radius than it destroys.
func (fx *Effects) HeavyImpact(w *ecs.World, center cp.Vector) int {
	n := fx.AreaDestroy(w, center, fx.tuning.HeavyImpactRadius, true, component.VariantHeavyImpact)
	fx.TriggerInRadius(w, center, fx.tuning.HeavyImpactTriggerRadius)
	return n
}

// Cluster runs the primary explosion now and schedules secondaries at random
// offsets, each delayed in proportion to its distance.
func (fx *Effects) Cluster(w *ecs.World, center cp.Vector) []ecs.TimerToken {
	t := fx.tuning
	fx.AreaDestroy(w, center, t.ClusterPrimaryRadius, false, component.VariantCluster)
	fx.TriggerInRadius(w, center, t.ClusterPrimaryRadius)

	count := t.ClusterMinSecondaries
	if span := t.ClusterMaxSecondaries - t.ClusterMinSecondaries; span > 0 {
		count += fx.rng.IntN(span + 1)
	}
	tokens := make([]ecs.TimerToken, 0, count)
	for range count {
		angle := fx.rng.Float64() * 2 * math.Pi
		offset := t.ClusterMinOffset + fx.rng.Float64()*(t.ClusterMaxOffset-t.ClusterMinOffset)
		point := center.Add(cp.ForAngle(angle).Mult(offset))
		delay := time.Duration(offset * float64(t.ClusterDelayPerUnit))
		tokens = append(tokens, fx.schedule(w, delay, func() {
			fx.AreaDestroy(w, point, t.ClusterSecondaryRadius, false, component.VariantCluster)
			fx.TriggerInRadius(w, point, t.ClusterSecondaryRadius)
		}))
	}
	return tokens
}

// PiercerDirection picks the travel direction of a piercing line: the live
// velocity, then the override, then straight down.
func PiercerDirection(velocity cp.Vector, override *cp.Vector) cp.Vector {
	return pickDirection(velocity, override, cp.Vector{X: 0, Y: 1})
}

// DrillDirection is PiercerDirection with a straight-up default.
func DrillDirection(velocity cp.Vector, override *cp.Vector) cp.Vector {
	return pickDirection(velocity, override, cp.Vector{X: 0, Y: -1})
}

const minDirectionSq = 1e-12

func pickDirection(velocity cp.Vector, override *cp.Vector, fallback cp.Vector) cp.Vector {
	if velocity.LengthSq() > minDirectionSq {
		return velocity.Normalize()
	}
	if override != nil && override.LengthSq() > minDirectionSq {
		return override.Normalize()
	}
	return fallback
}

// Piercer destroys blocks along a straight line from origin. Every
// PiercerTriggerEvery units the line also wakes nearby charges. With a
// positive segment delay each point is scheduled instead of run inline.
func (fx *Effects) Piercer(w *ecs.World, origin, velocity cp.Vector, override *cp.Vector) cp.Vector {
	t := fx.tuning
	dir := PiercerDirection(velocity, override)
	step := t.PiercerStep
	if step <= 0 {
		step = component.DefaultTuning().PiercerStep
	}
	steps := int(t.PiercerLength / step)
	stride := int(math.Round(t.PiercerTriggerEvery / step))
	if stride <= 0 {
		stride = 1
	}

	for i := 0; i <= steps; i++ {
		point := origin.Add(dir.Mult(float64(i) * step))
		trigger := i%stride == 0
		segment := func() {
			fx.areaDestroy(w, point, t.PiercerPointRadius, false, component.VariantPiercer, 0, trigger)
			if trigger {
				fx.TriggerInRadius(w, point, t.PiercerTriggerRadius)
			}
		}
		if t.PiercerSegmentDelay <= 0 {
			segment()
			continue
		}
		fx.schedule(w, time.Duration(i)*t.PiercerSegmentDelay, segment)
	}
	return dir
}

// ExplosiveBlock detonates an explosive block: the block itself goes, then a
// harsh area around it, then any charges in range.
func (fx *Effects) ExplosiveBlock(w *ecs.World, e ecs.Entity) int {
	b, ok := ecs.Get(w, e, component.BlockComponent.Kind())
	if !ok || !b.Active || b.Type != component.BlockExplosive {
		return 0
	}
	center, ok := transformPosition(w, e)
	if !ok {
		return 0
	}
	n := 0
	if fx.damage(w, e, b, true) {
		n++
	}
	return n + fx.detonate(w, center)
}

// detonate is the blast of an explosive block that is already gone.
func (fx *Effects) detonate(w *ecs.World, center cp.Vector) int {
	n := fx.AreaDestroy(w, center, fx.tuning.ExplosiveBlockRadius, true, component.VariantNone)
	fx.TriggerInRadius(w, center, fx.tuning.ExplosiveBlockRadius)
	return n
}

// AttachSticky pins a sticky projectile where it is and arms its charge.
func (fx *Effects) AttachSticky(w *ecs.World, e ecs.Entity, at cp.Vector) bool {
	if !fx.pin(w, e, at) {
		return false
	}
	radius := fx.tuning.StickyDetonationRadius
	if err := ecs.Add(w, e, component.ChargeComponent.Kind(), &component.Charge{
		Kind:             component.ChargeSticky,
		Position:         at,
		DetonationRadius: radius,
		BlastRadius:      radius,
		Armed:            true,
	}); err != nil {
		return false
	}
	return true
}

// pin stops a projectile and turns its body kinematic so it stays put but
// can still be repositioned.
func (fx *Effects) pin(w *ecs.World, e ecs.Entity, at cp.Vector) bool {
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		return false
	}
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return false
	}
	pb.Body.SetType(cp.BODY_KINEMATIC)
	pb.Body.SetVelocityVector(cp.Vector{})
	pb.Body.SetPosition(at)
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		tr.X, tr.Y = at.X, at.Y
	}
	p.Attached = true
	return true
}

// AreaDestroy applies area damage to every active block whose center lies
// within radius. Indestructible blocks are skipped. Armored blocks lose one
// hit point unless harsh is set. Explosive blocks destroyed by the sweep
// detonate in turn once it finishes.
func (fx *Effects) AreaDestroy(w *ecs.World, center cp.Vector, radius float64, harsh bool, source component.Variant) int {
	return fx.areaDestroy(w, center, radius, harsh, source, 0, true)
}

func (fx *Effects) areaDestroy(w *ecs.World, center cp.Vector, radius float64, harsh bool, source component.Variant, exclude ecs.Entity, mark bool) int {
	if w == nil || radius < 0 {
		return 0
	}
	destroyed := 0
	var chained []cp.Vector
	ecs.ForEach2(w, component.BlockComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Block, tr *component.Transform) {
		if e == exclude || !b.Active {
			return
		}
		pos := cp.Vector{X: tr.X, Y: tr.Y}
		if center.Distance(pos) > radius {
			return
		}
		if fx.damage(w, e, b, harsh) {
			destroyed++
			if b.Type == component.BlockExplosive {
				chained = append(chained, pos)
			}
		}
	})
	if mark {
		fx.mark(w, center, radius, source, harsh)
	}
	// Destroyed blocks are inactive, so each chain link only sees fresh ones.
	for _, pos := range chained {
		destroyed += fx.detonate(w, pos)
	}
	return destroyed
}

// damage applies one hit to b and reports whether it was destroyed.
func (fx *Effects) damage(w *ecs.World, e ecs.Entity, b *component.Block, harsh bool) bool {
	if !b.Active || !fx.registry.IsDestructible(b.Type) {
		return false
	}
	if fx.registry.IsArmored(b.Type) && !harsh {
		b.HitPoints--
		if b.HitPoints > 0 {
			return false
		}
	}
	b.HitPoints = 0
	b.Active = false
	ecs.Remove(w, e, component.PhysicsBodyComponent.Kind())
	fx.listener.BlockDestroyed(e, *b)
	return true
}

func (fx *Effects) mark(w *ecs.World, center cp.Vector, radius float64, source component.Variant, harsh bool) {
	frames := fx.tuning.MarkerFrames
	if frames <= 0 {
		return
	}
	m := ecs.CreateEntity(w)
	_ = ecs.Add(w, m, component.ExplosionMarkerComponent.Kind(), &component.ExplosionMarker{
		X:       center.X,
		Y:       center.Y,
		Radius:  radius,
		Variant: source,
		Harsh:   harsh,
	})
	_ = ecs.Add(w, m, component.TTLComponent.Kind(), &component.TTL{Frames: frames})
}

func bodyPosition(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		return pb.Body.Position(), true
	}
	return transformPosition(w, e)
}

func transformPosition(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return cp.Vector{X: tr.X, Y: tr.Y}, true
}
