package system

import (
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

// ReflectVelocity mirrors v about the surface normal n and scales the result
// by restitution times a jitter drawn from [jitterMin, jitterMax].
func ReflectVelocity(v, n cp.Vector, restitution, jitterMin, jitterMax float64, rng *rand.Rand) cp.Vector {
	if n.LengthSq() == 0 {
		return v.Mult(restitution)
	}
	n = n.Normalize()
	r := v.Sub(n.Mult(2 * v.Dot(n)))
	jitter := jitterMin
	if jitterMax > jitterMin && rng != nil {
		jitter += rng.Float64() * (jitterMax - jitterMin)
	}
	return r.Mult(restitution * jitter)
}

// Bounce reflects e's pre-impact velocity off the hit surface and nudges the
// body out along the normal so the same contact does not fire again.
func (fx *Effects) Bounce(w *ecs.World, e ecs.Entity, hit Hit) bool {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return false
	}
	v := hit.Velocity
	if v.LengthSq() == 0 {
		v = pb.Body.Velocity()
	}
	n := hit.Normal
	if n.LengthSq() > 0 {
		n = n.Normalize()
	}
	t := fx.tuning
	pb.Body.SetVelocityVector(ReflectVelocity(v, n, t.Restitution, t.JitterMin, t.JitterMax, fx.rng))
	pb.Body.SetPosition(pb.Body.Position().Add(n.Mult(t.BouncePush)))
	return true
}

// RicochetBlock breaks the struck block plus a small area around the contact
// and bounces the projectile. The projectile is never consumed here.
func (fx *Effects) RicochetBlock(w *ecs.World, e ecs.Entity, hit Hit) {
	if b, ok := ecs.Get(w, hit.Other, component.BlockComponent.Kind()); ok {
		fx.damage(w, hit.Other, b, false)
	}
	fx.areaDestroy(w, hit.Point, fx.tuning.RicochetRadius, false, component.VariantRicochet, hit.Other, true)
	fx.Bounce(w, e, hit)
	if p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind()); ok {
		p.BounceCount++
	}
}
