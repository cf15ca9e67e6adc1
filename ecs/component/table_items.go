package component

type Wall struct {
	Name string
}

var WallComponent = NewComponent[Wall]()

type Rubber struct {
	Name string
}

var RubberComponent = NewComponent[Rubber]()

// Bumper kicks balls away from its center with an impulse of Force (N s).
type Bumper struct {
	Name  string
	Force float64
}

var BumperComponent = NewComponent[Bumper]()

type Kicker struct {
	Name string
}

var KickerComponent = NewComponent[Kicker]()

type Trigger struct {
	Name string
}

var TriggerComponent = NewComponent[Trigger]()

type Light struct {
	Name string
}

var LightComponent = NewComponent[Light]()
