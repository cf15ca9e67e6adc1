package component

// Table holds the loaded table's identity and playfield size in meters.
type Table struct {
	Name  string
	ID    string
	Width float64
	Depth float64
}

var TableComponent = NewComponent[Table]()
