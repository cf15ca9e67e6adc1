package component

// Input stores per-frame control state.
type Input struct {
	LeftFlipper     bool
	RightFlipper    bool
	Plunger         bool
	PlungerPressed  bool
	PlungerReleased bool
	PausePressed    bool
	// Grab holds the ball under the cursor, a debug aid.
	Grab    bool
	CursorX float64
	CursorY float64
}

var InputComponent = NewComponent[Input]()
