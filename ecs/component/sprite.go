package component

// Sprite carries the display footprint of an entity. Rendering itself is
// left to whichever frontend is attached.
type Sprite struct {
	Width  float64
	Height float64
	Depth  int
}

var SpriteComponent = NewComponent[Sprite]()
