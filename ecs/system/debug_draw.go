package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

var defaultBlockColors = map[component.BlockType]color.Color{
	component.BlockStandard:       colornames.Lightblue,
	component.BlockReinforced:     colornames.Slateblue,
	component.BlockExplosive:      colornames.Crimson,
	component.BlockIndestructible: colornames.Darkblue,
	component.BlockSpringy:        colornames.Limegreen,
}

// DrawWorld renders blocks, charges, explosion markers and the physics shapes
// of w. colors overrides the per-type block colors.
func DrawWorld(screen *ebiten.Image, w *ecs.World, space *cp.Space, colors map[component.BlockType]color.Color) {
	if screen == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.BlockComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, b *component.Block, tr *component.Transform) {
		if !b.Active {
			return
		}
		clr, ok := colors[b.Type]
		if !ok {
			clr = defaultBlockColors[b.Type]
		}
		half := b.Size / 2
		vector.FillRect(screen, float32(tr.X-half), float32(tr.Y-half), float32(b.Size), float32(b.Size), clr, false)
	})

	d := &physicsDebugDrawer{screen: screen}
	ecs.ForEach(w, component.ChargeComponent.Kind(), func(_ ecs.Entity, c *component.Charge) {
		clr := toFColor(colornames.Orange)
		if c.Armed {
			clr = toFColor(colornames.Red)
		}
		d.drawCircle(c.Position, 6, clr)
	})

	ecs.ForEach2(w, component.ExplosionMarkerComponent.Kind(), component.TTLComponent.Kind(), func(_ ecs.Entity, m *component.ExplosionMarker, _ *component.TTL) {
		clr := toFColor(colornames.Gold)
		if m.Harsh {
			clr = toFColor(colornames.Orangered)
		}
		d.drawCircle(cp.Vector{X: m.X, Y: m.Y}, m.Radius, clr)
	})

	if space != nil {
		cp.DrawSpace(space, d)
	}
}

// DrawHUD prints the arsenal and level progress in the top-left corner.
func DrawHUD(screen *ebiten.Image, w *ecs.World) {
	if screen == nil || w == nil {
		return
	}
	root, ok := w.First(component.LevelProgressComponent.Kind())
	if !ok {
		return
	}
	prog, _ := ecs.Get(w, root, component.LevelProgressComponent.Kind())
	text := fmt.Sprintf("Cleared: %d%% (target %d%%)  %s", prog.Percent, prog.Target, prog.Outcome)
	if a, ok := ecs.Get(w, root, component.ArsenalComponent.Kind()); ok {
		text += fmt.Sprintf("\nSelected: %s  Remaining: %d", a.Selected, a.Remaining())
		for i, v := range component.Variants() {
			text += fmt.Sprintf("\n[%d] %-12s x%d", i+1, v, a.Counts[v])
		}
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

// DrawAim draws the pending launch vector from origin.
func DrawAim(screen *ebiten.Image, origin, target cp.Vector) {
	if screen == nil {
		return
	}
	vector.StrokeLine(screen, float32(origin.X), float32(origin.Y), float32(target.X), float32(target.Y), 2, colornames.Lightgrey, true)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape != nil && shape.Body() != nil && shape.Body().GetType() == cp.BODY_DYNAMIC {
		return cp.FColor{R: 1, G: 0.8, B: 0.2, A: 0.9}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, clr cp.FColor) {
	vector.StrokeLine(d.screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, toNRGBA(clr), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, clr cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, clr cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, clr)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
