package component

import "github.com/jakecoffman/cp"

// Joint stores constraint handles created for flippers and plungers.
type Joint struct {
	Pivot  *cp.Constraint
	Limit  *cp.Constraint
	Groove *cp.Constraint
	Spring *cp.Constraint
}

var JointComponent = NewComponent[Joint]()
