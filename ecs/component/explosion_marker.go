package component

// ExplosionMarker records where an explosion happened so a frontend can draw
// it. Markers carry a TTL and expire on their own.
type ExplosionMarker struct {
	X       float64
	Y       float64
	Radius  float64
	Variant Variant
	Harsh   bool
}

var ExplosionMarkerComponent = NewComponent[ExplosionMarker]()
