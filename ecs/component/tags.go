package component

// AnchorTag marks the fixed pivot entity of a flipper.
type AnchorTag struct{}

var AnchorTagComponent = NewComponent[AnchorTag]()

// GuideTag marks helper colliders such as plunger lane guides and stops.
type GuideTag struct{}

var GuideTagComponent = NewComponent[GuideTag]()

// CameraTag marks the entity holding the Camera.
type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
