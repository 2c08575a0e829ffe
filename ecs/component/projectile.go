package component

import "time"

// Projectile is the mutable state of a launched bomb. Position and velocity
// live on the entity's PhysicsBody.
type Projectile struct {
	Variant     Variant
	Consumed    bool
	Attached    bool
	Launched    bool
	HitBlock    bool
	BounceCount int
	LaunchedAt  time.Duration
}

var ProjectileComponent = NewComponent[Projectile]()
