package system

import (
	"math"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
)

// fitMargin is the share of the screen left free around a fitted table.
const fitMargin = 0.04

type CameraSystem struct {
	screenW float64
	screenH float64
}

func NewCameraSystem(screenW, screenH int) *CameraSystem {
	return &CameraSystem{screenW: float64(screenW), screenH: float64(screenH)}
}

// SetScreenSize records the logical screen size from the window layout.
func (cs *CameraSystem) SetScreenSize(w, h int) {
	cs.screenW, cs.screenH = float64(w), float64(h)
}

// Update keeps every camera sized to the screen and, when asked to, zoomed
// so the table fills the view. The table is centered on the world origin.
func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	var table *component.Table
	if e, ok := w.First(component.TableComponent.Kind()); ok {
		table, _ = ecs.Get(w, e, component.TableComponent.Kind())
	}

	ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, cam *component.Camera) {
		cam.ScreenWidth = cs.screenW
		cam.ScreenHeight = cs.screenH
		if !cam.Fit || table == nil {
			if cam.Zoom == 0 {
				cam.Zoom = 1
			}
			return
		}
		cam.X, cam.Y = 0, 0
		cam.Zoom = FitZoom(table.Width, table.Depth, cs.screenW, cs.screenH)
	})
}

// FitZoom is the pixels per meter that fit a width x depth table on the
// screen with a small margin.
func FitZoom(width, depth, screenW, screenH float64) float64 {
	if width <= 0 || depth <= 0 || screenW <= 0 || screenH <= 0 {
		return 1
	}
	scale := 1 + 2*fitMargin
	return math.Min(screenW/(width*scale), screenH/(depth*scale))
}
