package component

// Ball marks a pinball. ID is a small slot number used in names and by
// table rules.
type Ball struct {
	ID int
}

var BallComponent = NewComponent[Ball]()
