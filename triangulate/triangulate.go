// Package triangulate splits simple polygons into triangles by ear clipping.
package triangulate

import "math"

type Point struct {
	X float64
	Y float64
}

// MaxPoints is the largest polygon whose vertices uint16 indices can address.
const MaxPoints = math.MaxUint16 + 1

// Polygon triangulates a simple counter-clockwise polygon and returns index
// triples into points. Fewer than three points, or more than MaxPoints,
// yields nil. Each outer pass
// scans the remaining ring from its first vertex and clips the first ear it
// finds; the number of passes is bounded by len(points)^2, so malformed
// input (clockwise, self-intersecting, collinear) returns the triangles
// found so far instead of looping.
func Polygon(points []Point) []uint16 {
	n := len(points)
	if n < 3 || n > MaxPoints {
		return nil
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	indices := make([]uint16, 0, (n-2)*3)
	maxAttempts := n * n
	for attempts := 0; len(remaining) > 2 && attempts < maxAttempts; attempts++ {
		m := len(remaining)
		for i := 0; i < m; i++ {
			prev := (i + m - 1) % m
			next := (i + 1) % m
			if !isEar(points, remaining, prev, i, next) {
				continue
			}
			indices = append(indices,
				uint16(remaining[prev]),
				uint16(remaining[i]),
				uint16(remaining[next]),
			)
			remaining = append(remaining[:i], remaining[i+1:]...)
			break
		}
	}
	return indices
}

func isEar(points []Point, remaining []int, prev, curr, next int) bool {
	ip, ic, in := remaining[prev], remaining[curr], remaining[next]
	a, b, c := points[ip], points[ic], points[in]
	if !isConvex(a, b, c) {
		return false
	}
	for _, idx := range remaining {
		if idx == ip || idx == ic || idx == in {
			continue
		}
		if inTriangle(points[idx], a, b, c) {
			return false
		}
	}
	return true
}

func isConvex(a, b, c Point) bool {
	cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
	return cross > 0
}

// inTriangle reports barycentric containment, boundary included. A
// degenerate triangle counts as containing everything so it is never
// clipped as an ear.
func inTriangle(p, a, b, c Point) bool {
	area := 0.5 * math.Abs(a.X*(b.Y-c.Y)+b.X*(c.Y-a.Y)+c.X*(a.Y-b.Y))
	if area == 0 {
		return true
	}
	alpha := 0.5 * ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / area
	beta := 0.5 * ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / area
	gamma := 1 - alpha - beta
	return alpha >= 0 && beta >= 0 && gamma >= 0
}

// SignedArea returns the shoelace area of the ring, positive when the
// points wind counter-clockwise.
func SignedArea(points []Point) float64 {
	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// Area sums the absolute areas of the triangles described by indices.
func Area(points []Point, indices []uint16) float64 {
	var sum float64
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := points[indices[i]], points[indices[i+1]], points[indices[i+2]]
		sum += math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
	}
	return sum
}
