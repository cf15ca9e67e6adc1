package render

import (
	"image"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/mesh"
)

// RenderSystem draws every entity with a Transform and a Visual as
// triangles, ordered by render layer, then height, then entity id.
type RenderSystem struct {
	textures *Textures
	vertices []ebiten.Vertex
	order    []drawItem
}

type drawItem struct {
	e     ecs.Entity
	layer int
	z     float64
}

func NewRenderSystem(textures *Textures) *RenderSystem {
	return &RenderSystem{textures: textures}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	cam, ok := camera(w, screen)
	if !ok {
		return
	}

	r.order = r.order[:0]
	for _, e := range w.Query(component.TransformComponent.Kind(), component.VisualComponent.Kind()) {
		item := drawItem{e: e}
		if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			item.layer = layer.Index
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			item.z = t.Z
		}
		r.order = append(r.order, item)
	}
	sortDrawItems(r.order)

	for _, item := range r.order {
		t, ok := ecs.Get(w, item.e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		v, ok := ecs.Get(w, item.e, component.VisualComponent.Kind())
		if !ok || v.Mesh == nil || len(v.Mesh.Indices) == 0 {
			continue
		}
		r.drawVisual(screen, cam, t, v)
	}
}

func (r *RenderSystem) drawVisual(screen *ebiten.Image, cam component.Camera, t *component.Transform, v *component.Visual) {
	src := r.textures.Get(v.Image)
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	if src == nil {
		src = r.textures.White()
		r.vertices = AppendVertices(r.vertices[:0], v.Mesh, *t, cam, v, src.Bounds(), false)
	} else {
		op.Address = ebiten.AddressRepeat
		r.vertices = AppendVertices(r.vertices[:0], v.Mesh, *t, cam, v, src.Bounds(), true)
	}
	screen.DrawTriangles(r.vertices, v.Mesh.Indices, src, op)
}

// AppendVertices places the mesh in screen space. Textured meshes sample src
// by their UVs, flat meshes sample its center.
func AppendVertices(dst []ebiten.Vertex, m *mesh.Mesh, t component.Transform, cam component.Camera, v *component.Visual, src image.Rectangle, textured bool) []ebiten.Vertex {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	sin, cos := math.Sincos(t.Rotation)
	uvScale := v.UVScale
	if uvScale == 0 {
		uvScale = 1
	}

	cr := float32(v.Color.R) / 255
	cg := float32(v.Color.G) / 255
	cb := float32(v.Color.B) / 255
	ca := float32(v.Color.A) / 255

	cx := float32(src.Min.X) + float32(src.Dx())/2
	cy := float32(src.Min.Y) + float32(src.Dy())/2

	for i, p := range m.Positions {
		lx := float64(p[0]) * sx
		ly := float64(p[1]) * sy
		wx := t.X + lx*cos - ly*sin
		wy := t.Y + lx*sin + ly*cos
		px, py := cam.WorldToScreen(wx, wy)

		vert := ebiten.Vertex{
			DstX:   float32(px),
			DstY:   float32(py),
			SrcX:   cx,
			SrcY:   cy,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
		if textured && i < len(m.UVs) {
			uv := m.UVs[i]
			vert.SrcX = float32(src.Min.X) + uv[0]*float32(uvScale)*float32(src.Dx())
			vert.SrcY = float32(src.Min.Y) + uv[1]*float32(uvScale)*float32(src.Dy())
		}
		dst = append(dst, vert)
	}
	return dst
}

func sortDrawItems(items []drawItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		if items[i].z != items[j].z {
			return items[i].z < items[j].z
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})
}

// camera returns the first camera, sized to the target when the camera
// system has not run yet.
func camera(w *ecs.World, screen *ebiten.Image) (component.Camera, bool) {
	e, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return component.Camera{}, false
	}
	c, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok {
		return component.Camera{}, false
	}
	cam := *c
	if cam.ScreenWidth == 0 || cam.ScreenHeight == 0 {
		b := screen.Bounds()
		cam.ScreenWidth, cam.ScreenHeight = float64(b.Dx()), float64(b.Dy())
	}
	if cam.Zoom == 0 {
		cam.Zoom = 1
	}
	return cam, true
}
