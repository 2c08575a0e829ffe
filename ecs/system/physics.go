package system

import (
	"maps"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

const (
	collisionTypeProjectile cp.CollisionType = iota + 1
	collisionTypeBlock
	collisionTypeBoundary
)

const (
	spaceIterations   = 20
	boundaryThickness = 1.0
	boundaryFriction  = 0.8
)

// PhysicsSystem mirrors ECS bodies into a Chipmunk space, steps it once per
// tick and queues projectile contacts on the world for the dispatcher.
type PhysicsSystem struct {
	space         *cp.Space
	gravity       float64
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity

	// stepping is the world being stepped; read by the collision handler.
	stepping *ecs.World
	seen     map[contactKey]struct{}
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

type contactKey struct {
	lo, hi ecs.Entity
}

func pairKey(a, b ecs.Entity) contactKey {
	if a > b {
		a, b = b, a
	}
	return contactKey{lo: a, hi: b}
}

func NewPhysicsSystem(gravity float64) *PhysicsSystem {
	ps := &PhysicsSystem{
		gravity:  gravity,
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
		seen:     make(map[contactKey]struct{}),
	}
	ps.space = ps.newSpace()
	return ps
}

func (ps *PhysicsSystem) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = spaceIterations
	space.SetGravity(cp.Vector{X: 0, Y: ps.gravity})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	if ps.space == nil {
		ps.space = ps.newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncWorldBounds(w)

	clear(ps.seen)
	ps.stepping = w
	ps.space.Step(1.0)
	ps.stepping = nil

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	handler := ps.space.NewWildcardCollisionHandler(collisionTypeProjectile)
	handler.UserData = ps
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		sys.recordContact(arb)
		return true
	}

	ps.handlersReady = true
}

// recordContact queues one contact per entity pair per step. Two projectiles
// touching fire both wildcard handlers, so the pair key dedupes them.
func (ps *PhysicsSystem) recordContact(arb *cp.Arbiter) {
	w := ps.stepping
	if w == nil {
		return
	}
	shapeA, shapeB := arb.Shapes()
	a, okA := ps.shapes[shapeA]
	b, okB := ps.shapes[shapeB]
	if !okA || !okB || a == b {
		return
	}
	key := pairKey(a, b)
	if _, dup := ps.seen[key]; dup {
		return
	}
	ps.seen[key] = struct{}{}

	contact := ecs.Contact{
		A:      a,
		B:      b,
		Normal: arb.Normal().Neg(),
	}
	if set := arb.ContactPointSet(); set.Count > 0 {
		contact.Point = set.Points[0].PointA
	}
	bodyA, bodyB := arb.Bodies()
	if bodyA != nil {
		contact.VelA = bodyA.Velocity()
	}
	if bodyB != nil {
		contact.VelB = bodyB.Velocity()
	}
	w.Contacts().Push(contact)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	if ps.space == nil {
		return
	}

	ps.cleanupEntities(w)

	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if _, exists := ps.entities[e]; exists {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		var info *bodyInfo
		switch {
		case ecs.Has(w, e, component.ProjectileComponent.Kind()):
			p, _ := ecs.Get(w, e, component.ProjectileComponent.Kind())
			if !p.Launched {
				continue
			}
			info = ps.addProjectileBody(bodyComp)
		case ecs.Has(w, e, component.BlockComponent.Kind()):
			b, _ := ecs.Get(w, e, component.BlockComponent.Kind())
			if !b.Active {
				continue
			}
			info = ps.addStaticBox(transform, bodyComp, collisionTypeBlock)
		default:
			info = ps.addStaticBox(transform, bodyComp, collisionTypeBlock)
		}
		if info == nil {
			continue
		}

		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.shapes[shape] = e
		}
		if bodyComp.Shape == nil && len(info.shapes) > 0 {
			bodyComp.Shape = info.shapes[0]
		}
		if bodyComp.Body == nil {
			bodyComp.Body = info.body
		}
	}
}

func (ps *PhysicsSystem) addProjectileBody(bodyComp *component.PhysicsBody) *bodyInfo {
	if bodyComp.Body == nil || bodyComp.Shape == nil {
		return nil
	}
	bodyComp.Shape.SetCollisionType(collisionTypeProjectile)
	if !ps.space.ContainsBody(bodyComp.Body) {
		ps.space.AddBody(bodyComp.Body)
	}
	if !ps.space.ContainsShape(bodyComp.Shape) {
		ps.space.AddShape(bodyComp.Shape)
	}
	return &bodyInfo{body: bodyComp.Body, shapes: []*cp.Shape{bodyComp.Shape}}
}

func (ps *PhysicsSystem) addStaticBox(transform *component.Transform, bodyComp *component.PhysicsBody, collisionType cp.CollisionType) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		return nil
	}
	bb := cp.BB{
		L: transform.X - width/2,
		B: transform.Y - height/2,
		R: transform.X + width/2,
		T: transform.Y + height/2,
	}
	shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionType)
	ps.space.AddShape(shape)
	return &bodyInfo{body: ps.space.StaticBody, shapes: []*cp.Shape{shape}, static: true}
}

func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	if ps.space == nil || w == nil {
		return
	}
	boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}

	worldW := bounds.Width
	worldH := bounds.Height
	if worldW <= 0 || worldH <= 0 {
		return
	}

	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},           // top
		{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}}, // bottom
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},           // left
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}}, // right
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, boundaryThickness)
		shape.SetFriction(boundaryFriction)
		shape.SetElasticity(1)
		shape.SetCollisionType(collisionTypeBoundary)
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
		ps.shapes[shape] = boundsEntity
	}

	ps.entities[boundsEntity] = info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Static || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

// cleanupEntities drops the colliders of dead entities, of entities whose
// PhysicsBody was removed and of blocks that went inactive.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	// Sorted so the space sees removals in the same order every run.
	for _, e := range slices.Sorted(maps.Keys(ps.entities)) {
		if ps.keep(w, e) {
			continue
		}
		info := ps.entities[e]

		for _, shape := range info.shapes {
			if shape == nil || ps.space == nil {
				continue
			}
			if ps.space.ContainsShape(shape) {
				ps.space.RemoveShape(shape)
			}
			delete(ps.shapes, shape)
		}
		if info.body != nil && !info.static && ps.space != nil && ps.space.ContainsBody(info.body) {
			ps.space.RemoveBody(info.body)
		}

		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) keep(w *ecs.World, e ecs.Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	if ecs.Has(w, e, component.LevelBoundsComponent.Kind()) {
		return true
	}
	if !ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
		return false
	}
	if b, ok := ecs.Get(w, e, component.BlockComponent.Kind()); ok && !b.Active {
		return false
	}
	return true
}
