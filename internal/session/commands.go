package session

import (
	"fmt"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
)

// Command is one discrete input to a Session. The concrete types below are the
// complete set; menus and key bindings carry them directly.
type Command interface {
	fmt.Stringer
	isCommand()
}

// LoadFile replaces the dataset with the one stored at Path.
type LoadFile struct{ Path string }

// LoadDataset installs an already parsed dataset.
type LoadDataset struct{ Dataset *dataset.Dataset }

// SelectDistribution switches the overlaid curve.
type SelectDistribution struct{ Kind distribution.Kind }

// AdjustParameter nudges the active distribution's parameters by one step.
type AdjustParameter struct {
	Direction Direction
	Axis      Axis
}

// SetIntervalCount rebins the histogram.
type SetIntervalCount struct{ N int }

// SetParameterStep changes the granularity of AdjustParameter.
type SetParameterStep struct{ Step float64 }

// Quit asks the host to stop.
type Quit struct{}

func (LoadFile) isCommand()           {}
func (LoadDataset) isCommand()        {}
func (SelectDistribution) isCommand() {}
func (AdjustParameter) isCommand()    {}
func (SetIntervalCount) isCommand()   {}
func (SetParameterStep) isCommand()   {}
func (Quit) isCommand()               {}

func (c LoadFile) String() string { return "load " + c.Path }
func (c LoadDataset) String() string {
	if c.Dataset == nil {
		return "load <nil>"
	}
	return "load " + c.Dataset.Name
}
func (c SelectDistribution) String() string { return "distribution " + c.Kind.String() }
func (c AdjustParameter) String() string {
	return fmt.Sprintf("adjust %s %s", c.Axis, c.Direction)
}
func (c SetIntervalCount) String() string { return fmt.Sprintf("intervals %d", c.N) }
func (c SetParameterStep) String() string { return fmt.Sprintf("step %g", c.Step) }
func (Quit) String() string               { return "quit" }

// Direction of a parameter nudge.
type Direction int

const (
	Decrease Direction = -1
	Increase Direction = 1
)

func (d Direction) String() string {
	if d < 0 {
		return "down"
	}
	return "up"
}

// Axis picks which parameter a nudge applies to. Primary moves mu (left/right);
// Secondary moves sigma or beta (up/down).
type Axis int

const (
	Primary Axis = iota
	Secondary
)

func (a Axis) String() string {
	if a == Primary {
		return "primary"
	}
	return "secondary"
}
