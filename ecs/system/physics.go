package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/pinball/config"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/ecs/entity"
	"github.com/milk9111/pinball/logger"
)

const (
	collisionTypeBall cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypeSensor
)

// Shape filter categories. Flippers only touch balls so a bat overlapping a
// nearby slingshot wall does not fight it.
const (
	categoryBall uint = 1 << iota
	categoryTable
	categoryFlipper
)

const (
	tickRate         = 60.0
	defaultSubsteps  = 8
	defaultIterates  = 10
	sleepAfter       = 1.0
	grooveHalfLength = 1.0
)

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	substeps   int
	iterations int
	gravity    float64

	// world is only valid during Update; the collision callbacks publish
	// through it.
	world *ecs.World

	entities map[ecs.Entity]*bodyInfo
	owners   map[*cp.Shape]shapeOwner
	log      *zap.Logger
}

type bodyInfo struct {
	body        *cp.Body
	shapes      []*cp.Shape
	constraints []*cp.Constraint
	static      bool
}

type shapeOwner struct {
	entity ecs.Entity
	events bool
}

// NewPhysicsSystem builds the rigid-body host. Zero fields in cfg fall back to
// 8 substeps, 10 solver iterations and the table prefab gravity.
func NewPhysicsSystem(cfg config.PhysicsConfig) *PhysicsSystem {
	ps := &PhysicsSystem{
		substeps:   cfg.Substeps,
		iterations: cfg.Iterations,
		gravity:    cfg.Gravity,
		entities:   make(map[ecs.Entity]*bodyInfo),
		owners:     make(map[*cp.Shape]shapeOwner),
		log:        logger.Named("physics"),
	}
	if ps.substeps <= 0 {
		ps.substeps = defaultSubsteps
	}
	if ps.iterations <= 0 {
		ps.iterations = defaultIterates
	}
	if ps.gravity == 0 {
		ps.gravity = entity.LoadSpecs().Table.Gravity
	}
	ps.space = ps.newSpace()
	return ps
}

func (ps *PhysicsSystem) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = uint(ps.iterations)
	space.SleepTimeThreshold = sleepAfter
	space.SetGravity(cp.Vector{X: 0, Y: -ps.gravity})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Reset drops every body and starts over with an empty space, e.g. after
// the level has been destroyed.
func (ps *PhysicsSystem) Reset() {
	if ps == nil {
		return
	}
	ps.space = ps.newSpace()
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.owners = make(map[*cp.Shape]shapeOwner)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.Reset()
	}

	ps.world = w
	defer func() { ps.world = nil }()

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncJoints(w)

	if _, paused := w.First(component.PauseComponent.Kind()); paused {
		return
	}

	dt := 1.0 / tickRate / float64(ps.substeps)
	for i := 0; i < ps.substeps; i++ {
		ps.applyDrives(w)
		ps.space.Step(dt)
	}

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	begin := func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		ball, other := arb.Shapes()
		ps.publishStart(arb, ball, other, 0, false)
		return true
	}
	for _, other := range []cp.CollisionType{collisionTypeSolid, collisionTypeSensor} {
		h := ps.space.NewCollisionHandler(collisionTypeBall, other)
		h.BeginFunc = begin
	}

	// Ball pairs wait for the solver so the hit volume can follow the
	// impulse.
	balls := ps.space.NewCollisionHandler(collisionTypeBall, collisionTypeBall)
	balls.PostSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
		if !arb.IsFirstContact() {
			return
		}
		a, b := arb.Shapes()
		ps.publishStart(arb, a, b, arb.TotalImpulse().Length(), true)
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) publishStart(arb *cp.Arbiter, ballShape, otherShape *cp.Shape, impulse float64, always bool) {
	if ps.world == nil {
		return
	}
	ball, ok := ps.owners[ballShape]
	if !ok {
		return
	}
	other, ok := ps.owners[otherShape]
	if !ok || (!always && !other.events) {
		return
	}

	point := ballShape.Body().Position()
	if set := arb.ContactPointSet(); set.Count > 0 {
		point = set.Points[0].PointA
	}

	ps.world.Events().Push(ecs.Event{
		Type: ecs.EventCollisionStarted,
		Data: ecs.CollisionStarted{
			A:       ball.entity,
			B:       other.entity,
			X:       point.X,
			Y:       point.Y,
			Impulse: impulse,
		},
	})
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	if ps.space == nil {
		return
	}

	ps.cleanupEntities(w)

	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if _, exists := ps.entities[e]; exists {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		isBall := ecs.Has(w, e, component.BallComponent.Kind())
		isFlipper := ecs.Has(w, e, component.FlipperComponent.Kind())

		info := ps.createBodyInfo(*transform, bodyComp, isBall, isFlipper)
		if info == nil {
			// Tracked without shapes so the warning is not repeated.
			ps.log.Warn("entity has no usable collider", zap.String("entity", entityName(w, e)))
			ps.entities[e] = &bodyInfo{static: true}
			continue
		}
		for _, shape := range info.shapes {
			ps.owners[shape] = shapeOwner{entity: e, events: bodyComp.CollisionEvents || isBall}
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shapes = info.shapes
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp *component.PhysicsBody, isBall, isFlipper bool) *bodyInfo {
	if ps.space == nil {
		return nil
	}

	collisionType := collisionTypeSolid
	switch {
	case isBall:
		collisionType = collisionTypeBall
	case bodyComp.Sensor:
		collisionType = collisionTypeSensor
	}

	configure := func(shape *cp.Shape) {
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionType)
		shape.SetSensor(bodyComp.Sensor)
		switch {
		case isBall:
			shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryBall, cp.ALL_CATEGORIES))
		case isFlipper:
			shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryFlipper, categoryBall))
		case bodyComp.Static:
			shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryTable, cp.ALL_CATEGORIES))
		}
	}

	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		static := ps.space.StaticBody
		pos := cp.Vector{X: transform.X + bodyComp.OffsetX, Y: transform.Y + bodyComp.OffsetY}
		switch bodyComp.Collider {
		case component.ColliderCircle:
			if bodyComp.Radius <= 0 {
				return nil
			}
			info.shapes = append(info.shapes, cp.NewCircle(static, bodyComp.Radius, pos))
		case component.ColliderBox:
			if bodyComp.Width <= 0 || bodyComp.Height <= 0 {
				return nil
			}
			bb := cp.BB{
				L: pos.X - bodyComp.Width/2,
				B: pos.Y - bodyComp.Height/2,
				R: pos.X + bodyComp.Width/2,
				T: pos.Y + bodyComp.Height/2,
			}
			info.shapes = append(info.shapes, cp.NewBox2(static, bb, 0))
		case component.ColliderPolyline:
			for _, outline := range bodyComp.Outlines {
				for i := 1; i < len(outline); i++ {
					a := cp.Vector{X: transform.X + outline[i-1].X, Y: transform.Y + outline[i-1].Y}
					b := cp.Vector{X: transform.X + outline[i].X, Y: transform.Y + outline[i].Y}
					if a == b {
						continue
					}
					info.shapes = append(info.shapes, cp.NewSegment(static, a, b, 0))
				}
			}
		}
		if len(info.shapes) == 0 {
			return nil
		}
		for _, shape := range info.shapes {
			configure(shape)
			ps.space.AddShape(shape)
		}
		info.body = static
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	var moment float64
	switch bodyComp.Collider {
	case component.ColliderCircle:
		if bodyComp.Radius <= 0 {
			return nil
		}
		moment = cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{})
	case component.ColliderBox:
		if bodyComp.Width <= 0 || bodyComp.Height <= 0 {
			return nil
		}
		moment = cp.MomentForBox(mass, bodyComp.Width, bodyComp.Height)
	default:
		return nil
	}
	if bodyComp.LockRotation {
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	body.SetAngularVelocity(0)

	var shape *cp.Shape
	if bodyComp.Collider == component.ColliderCircle {
		shape = cp.NewCircle(body, bodyComp.Radius, cp.Vector{X: bodyComp.OffsetX, Y: bodyComp.OffsetY})
	} else {
		bb := cp.BB{
			L: bodyComp.OffsetX - bodyComp.Width/2,
			B: bodyComp.OffsetY - bodyComp.Height/2,
			R: bodyComp.OffsetX + bodyComp.Width/2,
			T: bodyComp.OffsetY + bodyComp.Height/2,
		}
		shape = cp.NewBox2(body, bb, 0)
	}
	configure(shape)

	extent := bodyComp.Radius
	if extent <= 0 {
		extent = math.Min(bodyComp.Width, bodyComp.Height) / 2
	}
	body.SetVelocityUpdateFunc(velocityFunc(bodyComp, extent))

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shapes = []*cp.Shape{shape}
	return info
}

// velocityFunc integrates velocity honoring the body's NoGravity flag. A
// Continuous body is kept from moving more than its own extent per step, so
// a fast ball cannot pass through a thin wall between two steps.
func velocityFunc(pb *component.PhysicsBody, extent float64) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		if pb.NoGravity {
			gravity = cp.Vector{}
		}
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
		if !pb.Continuous || extent <= 0 || dt <= 0 {
			return
		}
		limit := extent / dt
		if v := body.Velocity(); v.LengthSq() > limit*limit {
			body.SetVelocityVector(v.Clamp(limit))
		}
	}
}

// syncJoints pins flipper bats and plungers to the table once their bodies
// exist.
func (ps *PhysicsSystem) syncJoints(w *ecs.World) {
	static := ps.space.StaticBody

	ecs.ForEach2(w, component.FlipperComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, flipper *component.Flipper, body *component.PhysicsBody) {
		info := ps.entities[e]
		if info == nil || info.static || ecs.Has(w, e, component.JointComponent.Kind()) {
			return
		}
		anchor := cp.Vector{X: flipper.AnchorX, Y: flipper.AnchorY}
		joint := &component.Joint{
			Pivot: cp.NewPivotJoint(static, info.body, anchor),
			Limit: cp.NewRotaryLimitJoint(static, info.body, flipper.MinAngle, flipper.MaxAngle),
		}
		ps.addJoint(w, e, info, joint)
	})

	ecs.ForEach2(w, component.PlungerComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, plunger *component.Plunger, body *component.PhysicsBody) {
		info := ps.entities[e]
		if info == nil || info.static || ecs.Has(w, e, component.JointComponent.Kind()) {
			return
		}
		stiffness := 0.0
		if plunger.Compliance > 0 {
			stiffness = 1 / plunger.Compliance
		}
		joint := &component.Joint{
			Groove: cp.NewGrooveJoint(static, info.body,
				cp.Vector{X: plunger.AnchorX, Y: plunger.AnchorY - grooveHalfLength},
				cp.Vector{X: plunger.AnchorX, Y: plunger.AnchorY + grooveHalfLength},
				cp.Vector{}),
			Spring: cp.NewDampedSpring(static, info.body,
				cp.Vector{X: plunger.AnchorX, Y: plunger.AnchorY}, cp.Vector{},
				plunger.Stroke, stiffness, plunger.Damping),
		}
		ps.addJoint(w, e, info, joint)
	})
}

func (ps *PhysicsSystem) addJoint(w *ecs.World, e ecs.Entity, info *bodyInfo, joint *component.Joint) {
	for _, c := range []*cp.Constraint{joint.Pivot, joint.Limit, joint.Groove, joint.Spring} {
		if c == nil {
			continue
		}
		ps.space.AddConstraint(c)
		info.constraints = append(info.constraints, c)
	}
	if err := ecs.Add(w, e, component.JointComponent.Kind(), joint); err != nil {
		ps.log.Error("store joint", zap.String("entity", entityName(w, e)), zap.Error(err))
	}
}

// applyDrives sets flipper torque and plunger pull before a substep. cp
// clears forces after every step.
func (ps *PhysicsSystem) applyDrives(w *ecs.World) {
	ecs.ForEach2(w, component.FlipperComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, flipper *component.Flipper, body *component.PhysicsBody) {
		if body.Body == nil || body.Static {
			return
		}
		torque := flipper.DisabledTorque
		if flipper.Active {
			torque = flipper.EnabledTorque
		}
		body.Body.SetTorque(torque)
	})

	ecs.ForEach2(w, component.PlungerComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, plunger *component.Plunger, body *component.PhysicsBody) {
		if body.Body == nil || body.Static {
			return
		}
		if plunger.Force > 0 {
			body.Body.SetForce(cp.Vector{X: 0, Y: -plunger.Force})
		}
	})

	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, body *component.PhysicsBody) {
		if body.NoSleep && body.Body != nil && !body.Static {
			body.Body.Activate()
		}
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, body *component.PhysicsBody, transform *component.Transform) {
		if body.Body == nil || body.Static {
			return
		}
		pos := body.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = body.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}

		for _, c := range info.constraints {
			ps.space.RemoveConstraint(c)
		}
		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.owners, shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

func entityName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return e.String()
}
