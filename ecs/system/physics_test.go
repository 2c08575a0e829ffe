package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/ecs/entity"
)

func addBounds(w *ecs.World, width, height float64) ecs.Entity {
	root := w.CreateEntity()
	_ = ecs.Add(w, root, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: width, Height: height})
	return root
}

func TestPhysicsReportsBlockContact(t *testing.T) {
	w := ecs.NewWorld()
	addBounds(w, 1000, 1000)
	block := addBlock(t, w, 100, 200, component.BlockStandard)
	e := addProjectile(t, w, 100, 150, component.VariantBlast)
	if err := entity.Launch(w, e, cp.Vector{}, 0); err != nil {
		t.Fatalf("launch: %v", err)
	}
	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	pb.Body.SetVelocityVector(cp.Vector{Y: 5})

	ps := NewPhysicsSystem(0.3)
	var hit *ecs.Contact
	for range 30 {
		ps.Update(w)
		for _, c := range w.Contacts().Drain() {
			if other, _, ok := c.Other(e); ok && other == block {
				hit = &c
			}
		}
		if hit != nil {
			break
		}
	}
	if hit == nil {
		t.Fatalf("no contact between projectile and block")
	}
	_, normal, _ := hit.Other(e)
	if normal.Y >= 0 {
		t.Fatalf("normal = %v, want pointing up toward the projectile", normal)
	}
	if v := hit.Velocity(e); v.Y <= 0 {
		t.Fatalf("pre-impact velocity = %v, want falling", v)
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Y <= 150 {
		t.Fatalf("transform not synced from body: %+v", *tr)
	}
}

func TestPhysicsSkipsUnlaunched(t *testing.T) {
	w := ecs.NewWorld()
	addBounds(w, 1000, 1000)
	e := addProjectile(t, w, 100, 150, component.VariantBlast)

	ps := NewPhysicsSystem(0.3)
	ps.Update(w)

	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if ps.Space().ContainsBody(pb.Body) {
		t.Fatalf("unlaunched projectile entered the space")
	}
	if !near(pb.Body.Position(), cp.Vector{X: 100, Y: 150}) {
		t.Fatalf("unlaunched projectile moved to %v", pb.Body.Position())
	}
}

func TestPhysicsDropsDestroyedBlocks(t *testing.T) {
	w := ecs.NewWorld()
	fx := newTestEffects(testTuning(), nil)
	block := addBlock(t, w, 100, 200, component.BlockStandard)

	ps := NewPhysicsSystem(0.3)
	ps.Update(w)
	pb, _ := ecs.Get(w, block, component.PhysicsBodyComponent.Kind())
	shape := pb.Shape
	if shape == nil || !ps.Space().ContainsShape(shape) {
		t.Fatalf("block collider not added")
	}

	fx.AreaDestroy(w, cp.Vector{X: 100, Y: 200}, 1, false, component.VariantBlast)
	ps.Update(w)

	if ps.Space().ContainsShape(shape) {
		t.Fatalf("destroyed block kept its collider")
	}
}
