package component

// Pause freezes physics time while present on any entity.
type Pause struct{}

var PauseComponent = NewComponent[Pause]()
