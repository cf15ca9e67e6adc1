package component

// Transform places an entity on the simulation plane in meters, Y up.
// Z orders flat items stacked on the playfield.
type Transform struct {
	X        float64
	Y        float64
	Z        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
