package screen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field names an editable element attribute. Names match the JSON keys.
type Field string

const (
	FieldID          Field = keyID
	FieldKind        Field = keyType
	FieldLabel       Field = keyLabel
	FieldPosition    Field = keyPosition
	FieldPlaceholder Field = keyPlaceholder
	FieldValue       Field = keyValue
	FieldOptions     Field = keyOptions
	FieldSize        Field = keySize
	FieldAlt         Field = keyAlt
	FieldHeaders     Field = keyHeaders
	FieldRows        Field = keyRows
	FieldItems       Field = keyItems
	FieldBrand       Field = keyBrand
	FieldSrc         Field = keySrc
)

// Clone returns a deep copy that shares no mutable state with s.
func (s *Screen) Clone() *Screen {
	if s == nil {
		return nil
	}
	out := &Screen{
		Name:   s.Name,
		Layout: s.Layout,
		Extra:  cloneExtra(s.Extra),
	}
	if s.Sections != nil {
		out.Sections = make([]Section, len(s.Sections))
		for i, sec := range s.Sections {
			out.Sections[i] = sec.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the section.
func (sec Section) Clone() Section {
	out := Section{
		Title: sec.Title,
		Extra: cloneExtra(sec.Extra),
	}
	if sec.Elements != nil {
		out.Elements = make([]Element, len(sec.Elements))
		for i, el := range sec.Elements {
			out.Elements[i] = el.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Value != nil {
		v := *e.Value
		out.Value = &v
	}
	out.Options = cloneStrings(e.Options)
	out.Headers = cloneStrings(e.Headers)
	if e.Rows != nil {
		out.Rows = make([][]string, len(e.Rows))
		for i, row := range e.Rows {
			out.Rows[i] = cloneStrings(row)
		}
	}
	if e.Items != nil {
		out.Items = make([]Item, len(e.Items))
		copy(out.Items, e.Items)
	}
	out.Extra = cloneExtra(e.Extra)
	return out
}

// Update returns a deep copy of doc with field set to value on the element
// whose id matches. doc is never modified. An unknown id, or an attempt to
// change the id or kind, yields an unchanged copy.
//
// Accepted value types per field:
//   - label, position, placeholder, size, alt, brand, src: string
//   - value: *Value, string, float64, int
//   - options, headers: []string
//   - rows: [][]string
//   - items: []Item
//
// Any other field name is stored in Extra as the JSON encoding of value. A
// value of the wrong type for a typed field leaves the copy unchanged.
func Update(doc *Screen, id string, field Field, value interface{}) *Screen {
	out, _ := Apply(doc, id, field, value)
	return out
}

// Apply is Update that also reports whether the value was written, that is
// whether the element exists and accepted a value of that type.
func Apply(doc *Screen, id string, field Field, value interface{}) (*Screen, bool) {
	out := doc.Clone()
	if out == nil || field == FieldID || field == FieldKind {
		return out, false
	}
	for si := range out.Sections {
		elements := out.Sections[si].Elements
		for ei := range elements {
			if elements[ei].ID != id {
				continue
			}
			next, ok := setField(elements[ei], field, value)
			if ok {
				elements[ei] = next
			}
			return out, ok
		}
	}
	return out, false
}

// setField returns el with one field replaced. el is already a private copy.
func setField(el Element, field Field, value interface{}) (Element, bool) {
	switch field {
	case FieldLabel, FieldPosition, FieldPlaceholder, FieldSize, FieldAlt, FieldBrand, FieldSrc:
		s, ok := value.(string)
		if !ok {
			return el, false
		}
		switch field {
		case FieldLabel:
			el.Label = s
		case FieldPosition:
			el.Position = s
		case FieldPlaceholder:
			el.Placeholder = s
		case FieldSize:
			el.Size = s
		case FieldAlt:
			el.Alt = s
		case FieldBrand:
			el.Brand = s
		case FieldSrc:
			el.Src = s
		}

	case FieldValue:
		switch v := value.(type) {
		case *Value:
			if v != nil {
				c := *v
				v = &c
			}
			el.Value = v
		case string:
			el.Value = StringValue(v)
		case float64:
			el.Value = NumberValue(v)
		case int:
			el.Value = NumberValue(float64(v))
		default:
			return el, false
		}

	case FieldOptions, FieldHeaders:
		list, ok := value.([]string)
		if !ok {
			return el, false
		}
		if field == FieldOptions {
			el.Options = cloneStrings(list)
		} else {
			el.Headers = cloneStrings(list)
		}

	case FieldRows:
		rows, ok := value.([][]string)
		if !ok {
			return el, false
		}
		el.Rows = make([][]string, len(rows))
		for i, row := range rows {
			el.Rows[i] = cloneStrings(row)
		}

	case FieldItems:
		items, ok := value.([]Item)
		if !ok {
			return el, false
		}
		el.Items = append([]Item{}, items...)

	default:
		data, err := json.Marshal(value)
		if err != nil {
			return el, false
		}
		el.setExtra(string(field), data)
		return el, true
	}

	// A typed value supersedes whatever raw JSON was parked for the key.
	delete(el.Extra, string(field))
	return el, true
}

// EditableFields lists the fields the inspector offers for a kind, in
// display order. Unknown kinds get label only.
func EditableFields(kind Kind) []Field {
	switch kind {
	case KindHeading, KindSubheading, KindText:
		return []Field{FieldLabel, FieldPosition}
	case KindInput:
		return []Field{FieldLabel, FieldPlaceholder, FieldValue, FieldPosition}
	case KindNumber:
		return []Field{FieldLabel, FieldPlaceholder, FieldValue, FieldPosition}
	case KindSelect:
		return []Field{FieldLabel, FieldOptions, FieldValue, FieldPosition}
	case KindButton:
		return []Field{FieldLabel, FieldPosition}
	case KindImage:
		return []Field{FieldAlt, FieldSize, FieldSrc, FieldPosition}
	case KindTable:
		return []Field{FieldLabel, FieldHeaders, FieldRows, FieldPosition}
	case KindNavbar:
		return []Field{FieldBrand, FieldItems, FieldPosition}
	default:
		return []Field{FieldLabel}
	}
}

// FieldText formats the current value of field for an editing prompt, using
// the same syntax ParseFieldValue accepts.
func FieldText(el Element, field Field) string {
	switch field {
	case FieldID:
		return el.ID
	case FieldKind:
		return string(el.Kind)
	case FieldLabel:
		return el.Label
	case FieldPosition:
		return el.Position
	case FieldPlaceholder:
		return el.Placeholder
	case FieldValue:
		return el.Value.String()
	case FieldOptions:
		return strings.Join(el.Options, ", ")
	case FieldSize:
		return el.Size
	case FieldAlt:
		return el.Alt
	case FieldHeaders:
		return strings.Join(el.Headers, ", ")
	case FieldRows:
		rows := make([]string, len(el.Rows))
		for i, row := range el.Rows {
			rows[i] = strings.Join(row, ", ")
		}
		return strings.Join(rows, "; ")
	case FieldItems:
		items := make([]string, len(el.Items))
		for i, item := range el.Items {
			items[i] = item.Label
			if item.Variant != "" {
				items[i] += ":" + item.Variant
			}
		}
		return strings.Join(items, ", ")
	case FieldBrand:
		return el.Brand
	case FieldSrc:
		return el.Src
	default:
		if raw, ok := el.Extra[string(field)]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				return s
			}
			return string(raw)
		}
		return ""
	}
}

// ParseFieldValue converts prompt text into the typed value Update expects
// for field on an element of the given kind.
//
// Lists are comma separated; table rows are separated by semicolons; navbar
// items are written "Label:variant". A number element's value must parse as a
// number. Empty text clears list fields.
func ParseFieldValue(kind Kind, field Field, text string) (interface{}, error) {
	text = strings.TrimSpace(text)

	switch field {
	case FieldID, FieldKind:
		return nil, fmt.Errorf("%s cannot be edited", field)

	case FieldPosition:
		switch text {
		case "", PositionLeft, PositionCenter, PositionRight:
			return text, nil
		}
		return nil, fmt.Errorf("position must be left, center or right, got %q", text)

	case FieldSize:
		switch text {
		case "", SizeSmall, SizeMedium, SizeLarge:
			return text, nil
		}
		return nil, fmt.Errorf("size must be small, medium or large, got %q", text)

	case FieldValue:
		if kind == KindNumber {
			if text == "" {
				return (*Value)(nil), nil
			}
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("value must be a number, got %q", text)
			}
			return NumberValue(n), nil
		}
		return StringValue(text), nil

	case FieldOptions, FieldHeaders:
		return splitList(text, ","), nil

	case FieldRows:
		if text == "" {
			return [][]string{}, nil
		}
		var rows [][]string
		for _, row := range strings.Split(text, ";") {
			rows = append(rows, splitList(row, ","))
		}
		return rows, nil

	case FieldItems:
		var items []Item
		for _, entry := range splitList(text, ",") {
			label, variant, _ := strings.Cut(entry, ":")
			variant = strings.TrimSpace(variant)
			switch variant {
			case "", VariantPrimary, VariantSecondary:
			default:
				return nil, fmt.Errorf("item variant must be primary or secondary, got %q", variant)
			}
			items = append(items, Item{Label: strings.TrimSpace(label), Variant: variant})
		}
		if items == nil {
			items = []Item{}
		}
		return items, nil

	default:
		return text, nil
	}
}

func splitList(text, sep string) []string {
	out := []string{}
	if strings.TrimSpace(text) == "" {
		return out
	}
	for _, part := range strings.Split(text, sep) {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneExtra(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = cloneRaw(v)
	}
	return out
}
