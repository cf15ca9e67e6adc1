package component

// SoundRequest asks the audio device to play a table sound once. Positional
// requests pan by X relative to the table center.
type SoundRequest struct {
	Name       string
	X          float64
	Y          float64
	Volume     float64
	Positional bool
}

var SoundRequestComponent = NewComponent[SoundRequest]()

// RollingSound is a looping emitter whose volume follows the owner's speed.
type RollingSound struct {
	Sound    string
	Volume   float64
	MinSpeed float64
	MaxSpeed float64
	Playing  bool
}

var RollingSoundComponent = NewComponent[RollingSound]()
