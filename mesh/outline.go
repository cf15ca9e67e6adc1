package mesh

import (
	"github.com/peterstace/simplefeatures/geom"

	"github.com/milk9111/pinball/triangulate"
	"github.com/milk9111/pinball/units"
)

// OutlineReport describes problems with a closed outline that make ear
// clipping return a partial or empty triangulation.
type OutlineReport struct {
	Points    int
	Closed    bool
	Simple    bool
	Area      float64
	Clockwise bool
}

// Degenerate reports whether the outline cannot be fully triangulated.
func (r OutlineReport) Degenerate() bool {
	return r.Points < 3 || !r.Simple || r.Area == 0
}

// CheckOutline inspects a polyline as produced by Polyline.
func CheckOutline(points []units.Vec2) OutlineReport {
	ring := points
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	report := OutlineReport{Points: len(ring)}
	if len(ring) < 3 {
		return report
	}

	coords := make([]float64, 0, 2*(len(ring)+1))
	tri := make([]triangulate.Point, len(ring))
	for i, p := range ring {
		coords = append(coords, p.X, p.Y)
		tri[i] = triangulate.Point{X: p.X, Y: p.Y}
	}
	coords = append(coords, ring[0].X, ring[0].Y)

	ls, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		// Fewer than two distinct points.
		return report
	}
	report.Closed = ls.IsClosed()
	report.Simple = ls.IsSimple()

	area := triangulate.SignedArea(tri)
	report.Clockwise = area < 0
	if area < 0 {
		area = -area
	}
	report.Area = area
	return report
}
