package component

// RenderLayer orders drawing; lower indices draw first.
type RenderLayer struct {
	Index int
}

// Draw layers used by spawners.
const (
	LayerPlayfield = iota
	LayerWall
	LayerRubber
	LayerLightHalo
	LayerLight
	LayerItem
	LayerBall
	LayerCap
)

var RenderLayerComponent = NewComponent[RenderLayer]()
