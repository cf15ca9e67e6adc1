package component

// Name is a human readable label that includes the table item's name.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
