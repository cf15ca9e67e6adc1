package component

import (
	"image/color"

	"github.com/milk9111/pinball/mesh"
)

// Visual draws a flat mesh in the entity's frame, filled with Color and
// optionally textured with a table image.
type Visual struct {
	Mesh  *mesh.Mesh
	Color color.NRGBA
	// Image names a table image. Empty means a flat color.
	Image string
	// UVScale multiplies the mesh UVs before sampling Image.
	UVScale float64
	Blend   bool
}

var VisualComponent = NewComponent[Visual]()
