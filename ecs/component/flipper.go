package component

// Flipper is driven by the player. Angles are simulation radians; the body
// rotates about AnchorX/AnchorY between MinAngle and MaxAngle.
type Flipper struct {
	Name     string
	Left     bool
	MinAngle float64
	MaxAngle float64
	// RestAngle is the angle the flipper spawns at.
	RestAngle      float64
	Length         float64
	AnchorX        float64
	AnchorY        float64
	EnabledTorque  float64
	DisabledTorque float64
	Active         bool
}

var FlipperComponent = NewComponent[Flipper]()
