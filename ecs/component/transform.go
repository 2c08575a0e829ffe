package component

// Transform is the last synced pose. Blocks never move; launched projectiles
// are copied from their body each tick.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
