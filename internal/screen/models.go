package screen

import (
	"encoding/json"
	"strconv"
)

// DefaultScreenName is shown when a description carries no screen_name.
const DefaultScreenName = "Untitled Screen"

// Kind is the declared element type. Values outside the recognized set are
// valid and preserved verbatim.
type Kind string

const (
	KindHeading    Kind = "heading"
	KindSubheading Kind = "subheading"
	KindText       Kind = "text"
	KindInput      Kind = "input"
	KindNumber     Kind = "number"
	KindSelect     Kind = "select"
	KindButton     Kind = "button"
	KindImage      Kind = "image"
	KindTable      Kind = "table"
	KindNavbar     Kind = "navbar"
)

// KnownKinds lists the recognized kinds in a stable order.
var KnownKinds = []Kind{
	KindHeading, KindSubheading, KindText, KindInput, KindNumber,
	KindSelect, KindButton, KindImage, KindTable, KindNavbar,
}

// Known reports whether the renderer has dedicated behavior for k.
func (k Kind) Known() bool {
	for _, known := range KnownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Position values. Anything else is kept as written and renders centered.
const (
	PositionLeft   = "left"
	PositionCenter = "center"
	PositionRight  = "right"
)

// Size values for images.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Item variants for navbar and button group entries.
const (
	VariantPrimary   = "primary"
	VariantSecondary = "secondary"
)

// Screen is the root of a description.
type Screen struct {
	Name     string                     // screen_name
	Layout   string                     // layout keyword, resolved by the layout package
	Sections []Section                  // render order
	Extra    map[string]json.RawMessage // unrecognized top-level keys
}

// DisplayName returns the screen name, falling back to DefaultScreenName.
func (s *Screen) DisplayName() string {
	if s == nil || s.Name == "" {
		return DefaultScreenName
	}
	return s.Name
}

// Section groups elements under an optional title. It has no identity of its own.
type Section struct {
	Title    string
	Elements []Element
	Extra    map[string]json.RawMessage
}

// Item is one entry of a navbar or button group.
type Item struct {
	Label   string `json:"label"`
	Variant string `json:"variant,omitempty"`
}

// Element is a single leaf UI node.
type Element struct {
	ID          string
	Kind        Kind
	Label       string
	Position    string
	Placeholder string
	Value       *Value
	Options     []string
	Size        string
	Alt         string
	Headers     []string
	Rows        [][]string
	Items       []Item
	Brand       string
	Src         string

	// Extra holds every key the model does not type, plus known keys whose
	// JSON could not be decoded into their typed slot.
	Extra map[string]json.RawMessage
}

// Value is an element value as emitted upstream: a string or a number.
type Value struct {
	Text     string
	Number   float64
	IsNumber bool
}

// StringValue returns a text value.
func StringValue(s string) *Value {
	return &Value{Text: s}
}

// NumberValue returns a numeric value.
func NumberValue(n float64) *Value {
	return &Value{Number: n, IsNumber: true}
}

// String formats the value for display.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// Elements returns every element of the screen in render order.
func (s *Screen) Elements() []Element {
	if s == nil {
		return nil
	}
	var out []Element
	for _, section := range s.Sections {
		out = append(out, section.Elements...)
	}
	return out
}

// Find returns the element with the given id.
func (s *Screen) Find(id string) (Element, bool) {
	if s == nil || id == "" {
		return Element{}, false
	}
	for _, section := range s.Sections {
		for _, el := range section.Elements {
			if el.ID == id {
				return el, true
			}
		}
	}
	return Element{}, false
}

// ElementIDs returns all element ids in render order.
func (s *Screen) ElementIDs() []string {
	var ids []string
	for _, el := range s.Elements() {
		ids = append(ids, el.ID)
	}
	return ids
}
