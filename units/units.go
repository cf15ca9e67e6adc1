// Package units converts between Visual Pinball native units and simulation
// meters, and maps table coordinates (top-left origin, Y down) onto the
// simulation plane (table center origin, Y up).
package units

import "math"

// A native unit is 1/50 of 1.0625 inch.
const vpuToMeters = 25.4 * 1.0625 / 50 / 1000

// BallRadius is the standard pinball radius in meters (1 1/16 inch diameter).
const BallRadius = 0.027

// VPUToM converts a native length to meters.
func VPUToM(v float64) float64 {
	return v * vpuToMeters
}

// MToVPU converts meters back to native units.
func MToVPU(m float64) float64 {
	return m / vpuToMeters
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// FlipperAngle converts a native flipper angle in degrees, measured clockwise
// from the table's up direction, to a simulation angle in radians measured
// counter-clockwise from +X.
func FlipperAngle(deg float64) float64 {
	return Deg2Rad(90 - deg)
}

type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector of v, or the zero vector when v has no
// length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Bounds are table extents in native units.
type Bounds struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (b Bounds) Width() float64 {
	return b.Right - b.Left
}

func (b Bounds) Depth() float64 {
	return b.Bottom - b.Top
}

// Center returns the midpoint of the bounds in native units.
func (b Bounds) Center() (x, y float64) {
	return (b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2
}

// Transform is the translation placing native table coordinates on the
// simulation plane. Native Y grows towards the player, simulation Y grows
// away from them, so the Y axis is mirrored before translating.
type Transform struct {
	Tx float64
	Ty float64
}

func NewTransform(b Bounds) Transform {
	cx, cy := b.Center()
	return Transform{Tx: -VPUToM(cx), Ty: VPUToM(cy)}
}

// Point maps a native position to simulation meters.
func (t Transform) Point(x, y float64) Vec2 {
	return Vec2{X: t.Tx + VPUToM(x), Y: t.Ty - VPUToM(y)}
}

// Local maps a native position into the frame of an entity placed at
// (Tx, Ty): scaled and mirrored but not translated.
func (t Transform) Local(x, y float64) Vec2 {
	return Vec2{X: VPUToM(x), Y: -VPUToM(y)}
}

// Inverse maps a simulation position back to native units.
func (t Transform) Inverse(p Vec2) (x, y float64) {
	return MToVPU(p.X - t.Tx), MToVPU(t.Ty - p.Y)
}
