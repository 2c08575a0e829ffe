package component

// LevelBounds stores the world-space bounds of the current level. The entity
// holding it owns the boundary walls in the physics space.
type LevelBounds struct {
	Width  float64
	Height float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
