package screen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// JSON keys of the description format.
const (
	keyScreenName  = "screen_name"
	keyLayout      = "layout"
	keySections    = "sections"
	keyTitle       = "title"
	keyElements    = "elements"
	keyID          = "id"
	keyType        = "type"
	keyLabel       = "label"
	keyPosition    = "position"
	keyPlaceholder = "placeholder"
	keyValue       = "value"
	keyOptions     = "options"
	keySize        = "size"
	keyAlt         = "alt"
	keyHeaders     = "headers"
	keyRows        = "rows"
	keyItems       = "items"
	keyBrand       = "brand"
	keySrc         = "src"
	keyRaw         = "raw"
)

// Parse decodes a raw description. Only input that is not a JSON object is an
// error; every shape problem below the root is tolerated.
func Parse(data []byte) (*Screen, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty description")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("description must be a JSON object")
	}

	var s Screen
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("failed to decode description: %w", err)
	}
	return &s, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Screen) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Screen{}
	for key, msg := range raw {
		switch key {
		case keyScreenName:
			if !decodeString(msg, &s.Name) {
				s.setExtra(key, msg)
			}
		case keyLayout:
			if !decodeString(msg, &s.Layout) {
				s.setExtra(key, msg)
			}
		case keySections:
			if !decodeSections(msg, &s.Sections) {
				s.setExtra(key, msg)
			}
		default:
			s.setExtra(key, msg)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Screen) MarshalJSON() ([]byte, error) {
	out := extraCopy(s.Extra)
	putString(out, keyScreenName, s.Name)
	putString(out, keyLayout, s.Layout)
	if s.Sections != nil || out[keySections] == nil {
		sections := s.Sections
		if sections == nil {
			sections = []Section{}
		}
		if err := put(out, keySections, sections); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (s *Screen) setExtra(key string, msg json.RawMessage) {
	if s.Extra == nil {
		s.Extra = make(map[string]json.RawMessage)
	}
	s.Extra[key] = cloneRaw(msg)
}

// UnmarshalJSON implements json.Unmarshaler.
func (sec *Section) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*sec = Section{}
	for key, msg := range raw {
		switch key {
		case keyTitle:
			if !decodeString(msg, &sec.Title) {
				sec.setExtra(key, msg)
			}
		case keyElements:
			if !decodeElements(msg, &sec.Elements) {
				sec.setExtra(key, msg)
			}
		default:
			sec.setExtra(key, msg)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (sec Section) MarshalJSON() ([]byte, error) {
	out := extraCopy(sec.Extra)
	putString(out, keyTitle, sec.Title)
	if sec.Elements != nil || out[keyElements] == nil {
		elements := sec.Elements
		if elements == nil {
			elements = []Element{}
		}
		if err := put(out, keyElements, elements); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (sec *Section) setExtra(key string, msg json.RawMessage) {
	if sec.Extra == nil {
		sec.Extra = make(map[string]json.RawMessage)
	}
	sec.Extra[key] = cloneRaw(msg)
}

// UnmarshalJSON implements json.Unmarshaler. A non-object element is kept
// under Extra["raw"] with an empty kind so it reaches the fallback renderer.
func (e *Element) UnmarshalJSON(data []byte) error {
	*e = Element{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		e.setExtra(keyRaw, data)
		return nil
	}

	for key, msg := range raw {
		ok := true
		switch key {
		case keyID:
			ok = decodeScalar(msg, &e.ID)
		case keyType:
			var kind string
			ok = decodeString(msg, &kind)
			e.Kind = Kind(kind)
		case keyLabel:
			ok = decodeString(msg, &e.Label)
		case keyPosition:
			ok = decodeString(msg, &e.Position)
		case keyPlaceholder:
			ok = decodeString(msg, &e.Placeholder)
		case keyValue:
			ok = decodeValue(msg, &e.Value)
		case keyOptions:
			ok = decodeStringList(msg, &e.Options)
		case keySize:
			ok = decodeString(msg, &e.Size)
		case keyAlt:
			ok = decodeString(msg, &e.Alt)
		case keyHeaders:
			ok = decodeStringList(msg, &e.Headers)
		case keyRows:
			ok = decodeRows(msg, &e.Rows)
		case keyItems:
			ok = decodeItems(msg, &e.Items)
		case keyBrand:
			ok = decodeString(msg, &e.Brand)
		case keySrc:
			ok = decodeString(msg, &e.Src)
		default:
			ok = false
		}
		if !ok {
			e.setExtra(key, msg)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Element) MarshalJSON() ([]byte, error) {
	out := extraCopy(e.Extra)
	if raw, ok := out[keyRaw]; ok && len(out) == 1 && e.ID == "" && e.Kind == "" {
		return raw, nil
	}

	putString(out, keyID, e.ID)
	putString(out, keyType, string(e.Kind))
	putString(out, keyLabel, e.Label)
	putString(out, keyPosition, e.Position)
	putString(out, keyPlaceholder, e.Placeholder)
	putString(out, keySize, e.Size)
	putString(out, keyAlt, e.Alt)
	putString(out, keyBrand, e.Brand)
	putString(out, keySrc, e.Src)

	if e.Value != nil {
		var err error
		if e.Value.IsNumber {
			err = put(out, keyValue, e.Value.Number)
		} else {
			err = put(out, keyValue, e.Value.Text)
		}
		if err != nil {
			return nil, err
		}
	}
	if e.Options != nil {
		if err := put(out, keyOptions, e.Options); err != nil {
			return nil, err
		}
	}
	if e.Headers != nil {
		if err := put(out, keyHeaders, e.Headers); err != nil {
			return nil, err
		}
	}
	if e.Rows != nil {
		if err := put(out, keyRows, e.Rows); err != nil {
			return nil, err
		}
	}
	if e.Items != nil {
		if err := put(out, keyItems, e.Items); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (e *Element) setExtra(key string, msg json.RawMessage) {
	if e.Extra == nil {
		e.Extra = make(map[string]json.RawMessage)
	}
	e.Extra[key] = cloneRaw(msg)
}

// Decoding helpers. Each returns false when msg does not fit the typed slot;
// JSON null always fits and leaves the slot empty.

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

func decodeString(msg json.RawMessage, dst *string) bool {
	if isNull(msg) {
		return true
	}
	return json.Unmarshal(msg, dst) == nil
}

// decodeScalar accepts strings, numbers and booleans and stores their text.
func decodeScalar(msg json.RawMessage, dst *string) bool {
	if isNull(msg) {
		return true
	}
	var v interface{}
	if err := json.Unmarshal(msg, &v); err != nil {
		return false
	}
	s, ok := scalarText(v)
	if ok {
		*dst = s
	}
	return ok
}

func scalarText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

func decodeValue(msg json.RawMessage, dst **Value) bool {
	if isNull(msg) {
		return true
	}
	var v interface{}
	if err := json.Unmarshal(msg, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case string:
		*dst = StringValue(t)
	case float64:
		*dst = NumberValue(t)
	default:
		return false
	}
	return true
}

func decodeStringList(msg json.RawMessage, dst *[]string) bool {
	if isNull(msg) {
		return true
	}
	var list []interface{}
	if err := json.Unmarshal(msg, &list); err != nil {
		return false
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := scalarText(v)
		if !ok {
			return false
		}
		out = append(out, s)
	}
	*dst = out
	return true
}

func decodeRows(msg json.RawMessage, dst *[][]string) bool {
	if isNull(msg) {
		return true
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(msg, &rows); err != nil {
		return false
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		var cells []string
		if !decodeStringList(row, &cells) {
			return false
		}
		if cells == nil {
			cells = []string{}
		}
		out = append(out, cells)
	}
	*dst = out
	return true
}

// decodeItems accepts objects with label/variant and bare strings.
func decodeItems(msg json.RawMessage, dst *[]Item) bool {
	if isNull(msg) {
		return true
	}
	var list []json.RawMessage
	if err := json.Unmarshal(msg, &list); err != nil {
		return false
	}
	out := make([]Item, 0, len(list))
	for _, entry := range list {
		var label string
		if decodeScalar(entry, &label) {
			out = append(out, Item{Label: label})
			continue
		}
		var item Item
		if err := json.Unmarshal(entry, &item); err != nil {
			return false
		}
		out = append(out, item)
	}
	*dst = out
	return true
}

func decodeSections(msg json.RawMessage, dst *[]Section) bool {
	if isNull(msg) {
		return true
	}
	var list []json.RawMessage
	if err := json.Unmarshal(msg, &list); err != nil {
		return false
	}
	out := make([]Section, 0, len(list))
	for _, entry := range list {
		var sec Section
		if err := json.Unmarshal(entry, &sec); err != nil {
			return false
		}
		out = append(out, sec)
	}
	*dst = out
	return true
}

func decodeElements(msg json.RawMessage, dst *[]Element) bool {
	if isNull(msg) {
		return true
	}
	var list []json.RawMessage
	if err := json.Unmarshal(msg, &list); err != nil {
		return false
	}
	out := make([]Element, 0, len(list))
	for _, entry := range list {
		var el Element
		if err := json.Unmarshal(entry, &el); err != nil {
			return false
		}
		out = append(out, el)
	}
	*dst = out
	return true
}

// Encoding helpers.

func extraCopy(extra map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(extra)+8)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func putString(out map[string]json.RawMessage, key, value string) {
	if value == "" {
		return
	}
	data, _ := json.Marshal(value)
	out[key] = data
}

func put(out map[string]json.RawMessage, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	out[key] = data
	return nil
}

func cloneRaw(msg json.RawMessage) json.RawMessage {
	if msg == nil {
		return nil
	}
	out := make(json.RawMessage, len(msg))
	copy(out, msg)
	return out
}
