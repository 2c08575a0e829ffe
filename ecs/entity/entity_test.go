package entity

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/prefabs"
	"github.com/milk9111/bombbreaker/registry"
	"pgregory.net/rapid"
)

func boundedWorld(width, height float64) *ecs.World {
	w := ecs.NewWorld()
	root := w.CreateEntity()
	_ = ecs.Add(w, root, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: width, Height: height})
	return w
}

func TestNewProjectile(t *testing.T) {
	w := boundedWorld(800, 600)
	tuning := component.DefaultTuning()

	e, err := NewProjectile(w, cp.Vector{X: 100, Y: 500}, component.VariantPiercer, tuning)
	if err != nil {
		t.Fatalf("new projectile: %v", err)
	}
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok || p.Variant != component.VariantPiercer || p.Launched {
		t.Fatalf("projectile = %+v", p)
	}
	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	phys := tuning.PhysicsFor(component.VariantPiercer)
	wantMass := phys.Density * math.Pi * tuning.ProjectileRadius * tuning.ProjectileRadius
	if math.Abs(pb.Mass-wantMass) > 1e-9 || pb.Radius != tuning.ProjectileRadius {
		t.Fatalf("body mass=%v radius=%v, want %v/%v", pb.Mass, pb.Radius, wantMass, tuning.ProjectileRadius)
	}
	if pb.Shape == nil || pb.Shape.Elasticity() != phys.Restitution {
		t.Fatalf("shape not configured from variant physics")
	}
	if pos, _ := Position(w, e); pos != (cp.Vector{X: 100, Y: 500}) {
		t.Fatalf("position = %v", pos)
	}
}

func TestNewProjectileErrors(t *testing.T) {
	w := boundedWorld(800, 600)
	tuning := component.DefaultTuning()

	if _, err := NewProjectile(w, cp.Vector{X: 900, Y: 10}, component.VariantBlast, tuning); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if _, err := NewProjectile(w, cp.Vector{X: 10, Y: 10}, component.VariantNone, tuning); !errors.Is(err, component.ErrUnknownVariant) {
		t.Fatalf("err = %v, want ErrUnknownVariant", err)
	}
	if n := len(w.Query(component.ProjectileComponent.Kind())); n != 0 {
		t.Fatalf("failed creates left %d projectiles", n)
	}
}

func TestAssembleDestroysPartialEntity(t *testing.T) {
	w := ecs.NewWorld()
	errStep := errors.New("step failed")

	var partial ecs.Entity
	_, err := assemble(w,
		func(e ecs.Entity) error {
			partial = e
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 1, Y: 2})
		},
		func(ecs.Entity) error { return errStep },
		func(ecs.Entity) error {
			t.Fatalf("step after a failure ran")
			return nil
		},
	)
	if !errors.Is(err, errStep) {
		t.Fatalf("err = %v, want %v", err, errStep)
	}
	if w.IsAlive(partial) {
		t.Fatalf("entity %v left alive after a failed step", partial)
	}
	if n := len(w.Query(component.TransformComponent.Kind())); n != 0 {
		t.Fatalf("failed assemble left %d transforms", n)
	}

	e, err := assemble(w, func(e ecs.Entity) error {
		return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})
	})
	if err != nil || !w.IsAlive(e) {
		t.Fatalf("assemble = %v, %v", e, err)
	}
}

func TestLaunch(t *testing.T) {
	w := boundedWorld(800, 600)
	e, err := NewProjectile(w, cp.Vector{X: 100, Y: 100}, component.VariantBlast, component.DefaultTuning())
	if err != nil {
		t.Fatalf("new projectile: %v", err)
	}
	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())

	impulse := cp.Vector{X: 3, Y: -4}
	if err := Launch(w, e, impulse, 2*time.Second); err != nil {
		t.Fatalf("launch: %v", err)
	}
	want := impulse.Mult(1 / pb.Body.Mass())
	if got := pb.Body.Velocity(); math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("velocity = %v, want %v", got, want)
	}
	p, _ := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !p.Launched || p.LaunchedAt != 2*time.Second {
		t.Fatalf("projectile = %+v", *p)
	}

	if err := Launch(w, e, impulse, 0); !errors.Is(err, ErrAlreadyLaunched) {
		t.Fatalf("relaunch err = %v", err)
	}
	block, _ := NewBlock(w, nil, 50, 50, 15, component.BlockStandard)
	if err := Launch(w, block, impulse, 0); !errors.Is(err, ErrNotProjectile) {
		t.Fatalf("launch block err = %v", err)
	}
	w.DestroyEntity(e)
	if err := Launch(w, e, impulse, 0); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("launch dead err = %v", err)
	}
}

func TestLaunchImpulse(t *testing.T) {
	tests := []struct {
		name      string
		direction cp.Vector
		power     float64
		want      cp.Vector
	}{
		{name: "zero direction", direction: cp.Vector{}, power: 10, want: cp.Vector{}},
		{name: "negative power", direction: cp.Vector{X: 1}, power: -3, want: cp.Vector{}},
		{name: "within max", direction: cp.Vector{Y: -2}, power: 5, want: cp.Vector{Y: -5}},
		{name: "clamped", direction: cp.Vector{X: 10}, power: 50, want: cp.Vector{X: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LaunchImpulse(tt.direction, tt.power, 20)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Fatalf("impulse = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLaunchImpulseNeverExceedsMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dir := cp.Vector{
			X: rapid.Float64Range(-100, 100).Draw(t, "x"),
			Y: rapid.Float64Range(-100, 100).Draw(t, "y"),
		}
		power := rapid.Float64Range(-50, 500).Draw(t, "power")
		got := LaunchImpulse(dir, power, 20)
		if got.Length() > 20+1e-9 {
			t.Fatalf("impulse %v longer than max", got)
		}
	})
}

func TestNewBlock(t *testing.T) {
	w := ecs.NewWorld()
	reg := registry.Default()

	e, err := NewBlock(w, reg, 10, 20, 15, component.BlockReinforced)
	if err != nil {
		t.Fatalf("new block: %v", err)
	}
	b, _ := ecs.Get(w, e, component.BlockComponent.Kind())
	if !b.Active || b.HitPoints != reg.HitPoints(component.BlockReinforced) || b.Size != 15 {
		t.Fatalf("block = %+v", *b)
	}
	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !pb.Static || pb.Width != 15 {
		t.Fatalf("physics body = %+v", *pb)
	}

	if _, err := NewBlock(w, reg, 0, 0, 0, component.BlockStandard); err == nil {
		t.Fatalf("zero size should be rejected")
	}
}

func TestBuildLevel(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.LevelSpec{
		Name:          "mini",
		Width:         400,
		Height:        300,
		TargetPercent: 80,
		Arsenal:       map[string]int{"blast": 1, "sticky": 2},
		Select:        "sticky",
		Grid: &prefabs.GridSpec{
			Origin: prefabs.PointSpec{X: 200, Y: 100},
			Rows:   []string{"SIE"},
		},
	}

	lvl, err := BuildLevel(w, nil, component.DefaultTuning(), spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(lvl.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(lvl.Blocks))
	}
	if lvl.Launcher != (cp.Vector{X: 40, Y: 225}) {
		t.Fatalf("default launcher = %v", lvl.Launcher)
	}

	prog, _ := ecs.Get(w, lvl.Root, component.LevelProgressComponent.Kind())
	if prog.Total != 2 || prog.Target != 80 {
		t.Fatalf("progress = %+v, indestructible blocks must not count", *prog)
	}
	a, _ := ecs.Get(w, lvl.Root, component.ArsenalComponent.Kind())
	if a.Selected != component.VariantSticky || a.Remaining() != 3 {
		t.Fatalf("arsenal = %+v", *a)
	}
}

func TestBuildLevelSelectFallsBack(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.LevelSpec{
		Name:    "fallback",
		Width:   100,
		Height:  100,
		Arsenal: map[string]int{"ricochet": 1, "piercer": 1},
		Select:  "blast",
	}
	lvl, err := BuildLevel(w, nil, component.DefaultTuning(), spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, _ := ecs.Get(w, lvl.Root, component.ArsenalComponent.Kind())
	if a.Selected != component.VariantPiercer {
		t.Fatalf("selected = %s, want piercer", a.Selected)
	}
}

func TestBuildLevelErrors(t *testing.T) {
	tests := []struct {
		name string
		spec prefabs.LevelSpec
		want error
	}{
		{name: "no bounds", spec: prefabs.LevelSpec{Name: "x"}},
		{name: "bad select", spec: prefabs.LevelSpec{Name: "x", Width: 10, Height: 10, Select: "laser"}, want: component.ErrUnknownVariant},
		{name: "bad block", spec: prefabs.LevelSpec{Name: "x", Width: 10, Height: 10, Blocks: []prefabs.BlockSpec{{X: 1, Y: 1, Type: "glass"}}}, want: component.ErrUnknownBlockType},
		{name: "outside", spec: prefabs.LevelSpec{Name: "x", Width: 10, Height: 10, Blocks: []prefabs.BlockSpec{{X: 11, Y: 1}}}, want: ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLevel(ecs.NewWorld(), nil, component.DefaultTuning(), tt.spec)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInBounds(t *testing.T) {
	if !InBounds(ecs.NewWorld(), cp.Vector{X: -1e6}) {
		t.Fatalf("a world without bounds accepts everything")
	}
	w := boundedWorld(100, 50)
	for _, tt := range []struct {
		pos  cp.Vector
		want bool
	}{
		{cp.Vector{}, true},
		{cp.Vector{X: 100, Y: 50}, true},
		{cp.Vector{X: -0.1, Y: 10}, false},
		{cp.Vector{X: 10, Y: 50.1}, false},
	} {
		if got := InBounds(w, tt.pos); got != tt.want {
			t.Fatalf("InBounds(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}
