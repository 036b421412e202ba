package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/sketchui/internal/screen"
	"github.com/muurk/sketchui/internal/theme"
)

// Mode selects how rendered nodes react to clicks.
type Mode int

const (
	// ModeEdit makes every node inert so a click selects the element.
	ModeEdit Mode = iota
	// ModePreview lets controls react to clicks with an Action.
	ModePreview
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	default:
		return "edit"
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "edit", "":
		return ModeEdit, nil
	case "preview":
		return ModePreview, nil
	}
	return ModeEdit, fmt.Errorf("unknown mode %q (want edit or preview)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModePreview {
		return ModeEdit
	}
	return ModePreview
}

// Align is the horizontal alignment of a node within its cell.
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// AlignFor maps a position value to an alignment. Anything other than left
// or right is centered.
func AlignFor(position string) Align {
	switch position {
	case screen.PositionLeft:
		return AlignStart
	case screen.PositionRight:
		return AlignEnd
	default:
		return AlignCenter
	}
}

// Position converts the alignment to a lipgloss position.
func (a Align) Position() lipgloss.Position {
	switch a {
	case AlignStart:
		return lipgloss.Left
	case AlignEnd:
		return lipgloss.Right
	default:
		return lipgloss.Center
	}
}

// Node is one rendered element.
type Node struct {
	ElementID   string
	Kind        screen.Kind
	Label       string // caption as displayed; empty when absent or suppressed
	Placeholder string // placeholder as displayed
	Align       Align
	Fallback    bool // kind not recognized
	Interactive bool // a click triggers the control instead of selecting it
	Selected    bool
	Slot        theme.Slot
	Token       theme.Token // resolved token for Slot in the active theme
	View        string      // framed, styled output
}

// Action is what a click on an interactive node does in preview mode.
type Action struct {
	ElementID string
	Kind      screen.Kind
	Label     string
}

// String describes the action for a notice.
func (a Action) String() string {
	switch a.Kind {
	case screen.KindButton:
		return fmt.Sprintf("button %q pressed", a.Label)
	case screen.KindNavbar:
		return fmt.Sprintf("navigated to %q", a.Label)
	case screen.KindInput, screen.KindNumber:
		return fmt.Sprintf("focused %s field %q", a.Kind, a.Label)
	case screen.KindSelect:
		return fmt.Sprintf("opened %q", a.Label)
	default:
		return fmt.Sprintf("%s %q activated", a.Kind, a.Label)
	}
}

// ActionFor returns the preview action for n, if it is interactive.
func ActionFor(n Node) (Action, bool) {
	if !n.Interactive {
		return Action{}, false
	}
	label := n.Label
	if label == "" {
		label = n.Placeholder
	}
	return Action{ElementID: n.ElementID, Kind: n.Kind, Label: label}, true
}
