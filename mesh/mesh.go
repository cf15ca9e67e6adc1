// Package mesh builds flat renderable meshes and matching collision outlines
// from table polygons.
package mesh

import (
	"math"

	"github.com/milk9111/pinball/triangulate"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

// Mesh is a flat triangle mesh in an entity's local frame (meters, Y up).
type Mesh struct {
	Positions [][3]float32
	UVs       [][2]float32
	Indices   []uint16
	// LoopSizes partitions Positions into closed outlines. Nil means the
	// whole position list is a single outline.
	LoopSizes []int
}

func WallKey(name string) string {
	return "meshes/wall/" + name
}

func RubberKey(name string) string {
	return "meshes/rubber/" + name
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions)
}

// FromDragPoints builds the top face of a wall. Positions are the drag points
// converted to the local frame at the given native height; the triangulation
// refers to the drag points in their stored order.
func FromDragPoints(points []vpx.DragPoint, height float64, bounds units.Bounds) *Mesh {
	m := &Mesh{
		Positions: make([][3]float32, len(points)),
		UVs:       make([][2]float32, len(points)),
	}
	z := float32(units.VPUToM(height))
	ring := make([]triangulate.Point, len(points))
	for i, p := range points {
		x, y := units.VPUToM(p.X), -units.VPUToM(p.Y)
		m.Positions[i] = [3]float32{float32(x), float32(y), z}
		m.UVs[i] = uv(p, bounds)
		ring[i] = triangulate.Point{X: x, Y: y}
	}
	m.Indices = triangulateCCW(ring)
	return m
}

// triangulateCCW triangulates ring, reversing it first when it winds
// clockwise. Returned indices always refer to ring's own order.
func triangulateCCW(ring []triangulate.Point) []uint16 {
	if triangulate.SignedArea(ring) >= 0 {
		return triangulate.Polygon(ring)
	}
	n := len(ring)
	reversed := make([]triangulate.Point, n)
	for i, p := range ring {
		reversed[n-1-i] = p
	}
	idx := triangulate.Polygon(reversed)
	for i, v := range idx {
		idx[i] = uint16(n-1) - v
	}
	return idx
}

// Explicit texture coordinates are not read; such points pass their native
// position through unscaled.
func uv(p vpx.DragPoint, bounds units.Bounds) [2]float32 {
	if !p.AutoTexture {
		return [2]float32{float32(p.X), float32(p.Y)}
	}
	w, d := bounds.Width(), bounds.Depth()
	var u, v float64
	if w != 0 {
		u = p.X / w
	}
	if d != 0 {
		v = p.Y / d
	}
	return [2]float32{float32(u), float32(v)}
}

// Ring builds a band of the given native thickness around the closed
// centerline described by points. The first half of Positions is the outer
// outline, the second half the inner outline.
func Ring(points []vpx.DragPoint, thickness, height float64, bounds units.Bounds) *Mesh {
	n := len(points)
	if n < 2 || 2*n > triangulate.MaxPoints {
		return &Mesh{}
	}
	center := make([]units.Vec2, n)
	ring := make([]triangulate.Point, n)
	for i, p := range points {
		center[i] = units.Vec2{X: units.VPUToM(p.X), Y: -units.VPUToM(p.Y)}
		ring[i] = triangulate.Point{X: center[i].X, Y: center[i].Y}
	}
	// Outward normals point right of travel on a counter-clockwise outline.
	orient := 1.0
	if triangulate.SignedArea(ring) < 0 {
		orient = -1
	}
	half := units.VPUToM(thickness) / 2
	z := float32(units.VPUToM(height))

	m := &Mesh{
		Positions: make([][3]float32, 2*n),
		UVs:       make([][2]float32, 2*n),
		Indices:   make([]uint16, 0, 6*n),
		LoopSizes: []int{n, n},
	}
	for i := range center {
		off := miter(center[(i+n-1)%n], center[i], center[(i+1)%n]).Scale(half * orient)
		outer := center[i].Add(off)
		inner := center[i].Sub(off)
		m.Positions[i] = [3]float32{float32(outer.X), float32(outer.Y), z}
		m.Positions[n+i] = [3]float32{float32(inner.X), float32(inner.Y), z}
		m.UVs[i] = uv(points[i], bounds)
		m.UVs[n+i] = m.UVs[i]
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		oi, oj := uint16(i), uint16(j)
		ii, ij := uint16(n+i), uint16(n+j)
		if orient > 0 {
			m.Indices = append(m.Indices, ii, oi, oj, ii, oj, ij)
		} else {
			m.Indices = append(m.Indices, oi, ii, ij, oi, ij, oj)
		}
	}
	return m
}

// miter returns the right-hand offset direction at b, lengthened so both
// adjacent edges are offset by one unit. Sharp corners are clamped.
func miter(a, b, c units.Vec2) units.Vec2 {
	n1 := rightNormal(b.Sub(a))
	n2 := rightNormal(c.Sub(b))
	sum := n1.Add(n2).Normalize()
	if sum == (units.Vec2{}) {
		return n1
	}
	dot := sum.X*n1.X + sum.Y*n1.Y
	if dot < 0.25 {
		dot = 0.25
	}
	return sum.Scale(1 / dot)
}

func rightNormal(d units.Vec2) units.Vec2 {
	return units.Vec2{X: d.Y, Y: -d.X}.Normalize()
}

// Polyline returns the outline of the mesh as 2D points with the first point
// repeated at the end, so a mesh of N vertices gives N+1 points.
func (m *Mesh) Polyline() []units.Vec2 {
	if m == nil || len(m.Positions) == 0 {
		return nil
	}
	out := make([]units.Vec2, 0, len(m.Positions)+1)
	for _, p := range m.Positions {
		out = append(out, units.Vec2{X: float64(p[0]), Y: float64(p[1])})
	}
	return append(out, out[0])
}

// Loops returns every closed outline of the mesh, each with its first point
// repeated at the end.
func (m *Mesh) Loops() [][]units.Vec2 {
	if m == nil || len(m.Positions) == 0 {
		return nil
	}
	if len(m.LoopSizes) == 0 {
		return [][]units.Vec2{m.Polyline()}
	}
	var loops [][]units.Vec2
	start := 0
	for _, size := range m.LoopSizes {
		if size <= 0 || start+size > len(m.Positions) {
			break
		}
		loop := make([]units.Vec2, 0, size+1)
		for _, p := range m.Positions[start : start+size] {
			loop = append(loop, units.Vec2{X: float64(p[0]), Y: float64(p[1])})
		}
		loops = append(loops, append(loop, loop[0]))
		start += size
	}
	return loops
}

// WallCollidable reports whether a wall blocks the ball: it must be flagged
// collidable and start below the top of a ball resting on the playfield.
func WallCollidable(collidable bool, heightBottom float64) bool {
	return collidable && units.VPUToM(heightBottom) < 2*units.BallRadius
}

const defaultSegments = 32

// Circle builds a triangle fan of the given radius centered on the origin.
func Circle(radius float64, segments int) *Mesh {
	if segments < 3 {
		segments = defaultSegments
	}
	segments = min(segments, triangulate.MaxPoints-1)
	m := &Mesh{
		Positions: make([][3]float32, 0, segments+1),
		UVs:       make([][2]float32, 0, segments+1),
		Indices:   make([]uint16, 0, segments*3),
	}
	m.Positions = append(m.Positions, [3]float32{})
	m.UVs = append(m.UVs, [2]float32{0.5, 0.5})
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		c, s := math.Cos(a), math.Sin(a)
		m.Positions = append(m.Positions, [3]float32{float32(radius * c), float32(radius * s), 0})
		m.UVs = append(m.UVs, [2]float32{float32(0.5 + c/2), float32(0.5 - s/2)})
	}
	for i := 0; i < segments; i++ {
		next := (i+1)%segments + 1
		m.Indices = append(m.Indices, 0, uint16(i+1), uint16(next))
	}
	return m
}

// Annulus builds a flat ring between inner and outer radius.
func Annulus(inner, outer float64, segments int) *Mesh {
	if segments < 3 {
		segments = defaultSegments
	}
	segments = min(segments, triangulate.MaxPoints/2)
	m := &Mesh{
		Positions: make([][3]float32, 2*segments),
		UVs:       make([][2]float32, 2*segments),
		Indices:   make([]uint16, 0, segments*6),
		LoopSizes: []int{segments, segments},
	}
	ratio := 0.0
	if outer != 0 {
		ratio = inner / outer
	}
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		c, s := math.Cos(a), math.Sin(a)
		m.Positions[i] = [3]float32{float32(outer * c), float32(outer * s), 0}
		m.Positions[segments+i] = [3]float32{float32(inner * c), float32(inner * s), 0}
		m.UVs[i] = [2]float32{float32(0.5 + c/2), float32(0.5 - s/2)}
		m.UVs[segments+i] = [2]float32{float32(0.5 + ratio*c/2), float32(0.5 - ratio*s/2)}
	}
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		oi, oj := uint16(i), uint16(j)
		ii, ij := uint16(segments+i), uint16(segments+j)
		m.Indices = append(m.Indices, oi, oj, ij, oi, ij, ii)
	}
	return m
}

// Rect builds a w by h rectangle centered on the origin.
func Rect(w, h float64) *Mesh {
	hw, hh := float32(w/2), float32(h/2)
	return &Mesh{
		Positions: [][3]float32{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}},
		UVs:       [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
	}
}
