package component

// Plunger is pulled back while its control is held and released into the
// ball when let go.
type Plunger struct {
	Name string
	// Stroke is the travel length in meters.
	Stroke float64
	// AnchorX and AnchorY are the spring anchor. The body rests Stroke above
	// it.
	AnchorX    float64
	AnchorY    float64
	Compliance float64
	Damping    float64
	// Force is the current pull force on the body, accumulated while held.
	Force        float64
	PullRate     float64
	MaxForce     float64
	Pulling      bool
	PullSound    string
	ReleaseSound string
}

// Offset is the body height relative to its rest position, negative while
// pulled back.
func (p *Plunger) Offset(bodyY float64) float64 {
	return bodyY - (p.AnchorY + p.Stroke)
}

// CanPull reports whether a body at bodyY may be pulled further back.
func (p *Plunger) CanPull(bodyY float64) bool {
	return p.Offset(bodyY) > -p.Stroke && p.Force < p.MaxForce
}

var PlungerComponent = NewComponent[Plunger]()
