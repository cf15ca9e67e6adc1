package component

// Camera maps simulation meters to screen pixels. X and Y are the world
// point at the screen center, Zoom is pixels per meter. Screen Y grows
// downwards while world Y grows upwards.
type Camera struct {
	X            float64
	Y            float64
	Zoom         float64
	ScreenWidth  float64
	ScreenHeight float64
	// Fit recomputes Zoom so the whole table is visible.
	Fit bool
}

var CameraComponent = NewComponent[Camera]()

func (c Camera) WorldToScreen(x, y float64) (float64, float64) {
	return (x-c.X)*c.Zoom + c.ScreenWidth/2, -(y-c.Y)*c.Zoom + c.ScreenHeight/2
}

func (c Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	if c.Zoom == 0 {
		return c.X, c.Y
	}
	return (sx-c.ScreenWidth/2)/c.Zoom + c.X, -(sy-c.ScreenHeight/2)/c.Zoom + c.Y
}
