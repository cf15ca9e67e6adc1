package component

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/pinball/units"
)

// ColliderKind selects the collision shape built for a PhysicsBody.
type ColliderKind int

const (
	ColliderCircle ColliderKind = iota
	ColliderBox
	// ColliderPolyline builds one segment per consecutive pair in each of
	// Outlines.
	ColliderPolyline
	ColliderNone
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Geometry is in meters in the entity's local frame.
type PhysicsBody struct {
	Body   *cp.Body
	Shapes []*cp.Shape

	Collider ColliderKind
	Radius   float64
	Width    float64
	Height   float64
	Outlines [][]units.Vec2
	// OffsetX and OffsetY move a box collider relative to the body origin.
	OffsetX float64
	OffsetY float64

	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
	Sensor     bool

	LockRotation bool
	// CollisionEvents makes collision starts involving this body reach the
	// world event queue.
	CollisionEvents bool
	NoSleep         bool
	// Continuous asks for tunneling protection. The host caps the speed to
	// one extent per substep instead of sweeping.
	Continuous bool
	// NoGravity suspends gravity for a dynamic body while set.
	NoGravity bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
