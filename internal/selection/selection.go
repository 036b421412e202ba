// Package selection tracks which element, if any, the operator has selected.
//
// State is a value type. Every transition returns a new State and leaves the
// receiver untouched, so a state can be held by a snapshot safely.
package selection

// State is either unselected or selected on one element id.
type State struct {
	id string
}

// None is the unselected state.
var None = State{}

// Of returns the state selecting id. An empty id yields None.
func Of(id string) State {
	return State{id: id}
}

// Click selects id. Clicking the selected element again keeps it selected.
// An empty id means the click landed outside any element and leaves the
// state unchanged.
func (s State) Click(id string) State {
	if id == "" {
		return s
	}
	return State{id: id}
}

// Clear returns the unselected state.
func (s State) Clear() State {
	return None
}

// Reset returns the unselected state for a newly ingested document.
func (s State) Reset() State {
	return None
}

// Selected reports whether an element is selected.
func (s State) Selected() bool {
	return s.id != ""
}

// ID returns the selected element id, or "" when unselected.
func (s State) ID() string {
	return s.id
}

// Is reports whether id is the selected element.
func (s State) Is(id string) bool {
	return id != "" && s.id == id
}

// String returns "none" or "selected(<id>)".
func (s State) String() string {
	if s.id == "" {
		return "none"
	}
	return "selected(" + s.id + ")"
}
