package component

// LevelLoaded is a transient marker added once the table has been spawned.
// The reactor consumes it to run the table's enter rules.
type LevelLoaded struct{}

var LevelLoadedComponent = NewComponent[LevelLoaded]()
