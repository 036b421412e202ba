package screen

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func stampedSample(t *testing.T) *Screen {
	t.Helper()
	return Assigner{NewID: counterIDs()}.Assign(mustParse(t, sampleDescription))
}

func TestUpdate_ChangesOnlyTargetField(t *testing.T) {
	doc := stampedSample(t)
	target := doc.Sections[0].Elements[1].ID

	got := Update(doc, target, FieldLabel, "Submit")

	el, ok := got.Find(target)
	if !ok {
		t.Fatalf("element %s missing after update", target)
	}
	if el.Label != "Submit" {
		t.Errorf("Label = %q, want Submit", el.Label)
	}

	// Everything else equals the original.
	before := doc.Elements()
	after := got.Elements()
	for i := range before {
		want := before[i]
		if want.ID == target {
			want.Label = "Submit"
		}
		if !reflect.DeepEqual(after[i], want) {
			t.Errorf("element %d = %+v, want %+v", i, after[i], want)
		}
	}
	if got.Name != doc.Name || got.Layout != doc.Layout || !reflect.DeepEqual(got.Extra, doc.Extra) {
		t.Error("screen-level attributes changed")
	}
}

func TestUpdate_DoesNotAlterHistory(t *testing.T) {
	doc := stampedSample(t)
	snapshot := mustJSON(t, doc)
	tableID := "tbl"

	first := Update(doc, tableID, FieldRows, [][]string{{"x", "y"}})
	second := Update(first, tableID, FieldHeaders, []string{"A", "B"})

	// Mutating the newest snapshot must not leak into earlier ones.
	el, _ := second.Find(tableID)
	el.Rows[0][0] = "mutated"
	second.Sections[1].Elements[0].Rows[0][0] = "mutated"
	second.Sections[0].Title = "mutated"

	if string(mustJSON(t, doc)) != string(snapshot) {
		t.Errorf("original changed:\n%s\n%s", snapshot, mustJSON(t, doc))
	}
	prev, _ := first.Find(tableID)
	if prev.Rows[0][0] != "x" {
		t.Errorf("first snapshot rows = %v, want [[x y]]", prev.Rows)
	}
	if first.Sections[0].Title != "Form" {
		t.Errorf("first snapshot title = %q", first.Sections[0].Title)
	}
}

func TestUpdate_NoOps(t *testing.T) {
	doc := stampedSample(t)
	id := doc.Sections[0].Elements[0].ID

	tests := []struct {
		name  string
		id    string
		field Field
		value interface{}
	}{
		{"unknown id", "missing", FieldLabel, "x"},
		{"id field", id, FieldID, "new-id"},
		{"kind field", id, FieldKind, "button"},
		{"wrong type for label", id, FieldLabel, 12},
		{"wrong type for options", id, FieldOptions, "a,b"},
		{"wrong type for value", id, FieldValue, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Update(doc, tt.id, tt.field, tt.value)
			if got == doc {
				t.Fatal("Update() must return a new document")
			}
			if !reflect.DeepEqual(got, doc) {
				t.Errorf("Update() changed the document:\n%s", mustJSON(t, got))
			}
		})
	}
}

func TestUpdate_Fields(t *testing.T) {
	doc := stampedSample(t)
	id := doc.Sections[0].Elements[0].ID

	tests := []struct {
		field Field
		value interface{}
		check func(Element) bool
	}{
		{FieldPosition, "left", func(e Element) bool { return e.Position == "left" }},
		{FieldPlaceholder, "Email", func(e Element) bool { return e.Placeholder == "Email" }},
		{FieldValue, "hello", func(e Element) bool { return e.Value.String() == "hello" && !e.Value.IsNumber }},
		{FieldValue, 7, func(e Element) bool { return e.Value.IsNumber && e.Value.Number == 7 }},
		{FieldValue, 2.5, func(e Element) bool { return e.Value.String() == "2.5" }},
		{FieldValue, (*Value)(nil), func(e Element) bool { return e.Value == nil }},
		{FieldOptions, []string{"a", "b"}, func(e Element) bool { return reflect.DeepEqual(e.Options, []string{"a", "b"}) }},
		{FieldItems, []Item{{Label: "Go"}}, func(e Element) bool { return len(e.Items) == 1 && e.Items[0].Label == "Go" }},
		{FieldSize, "large", func(e Element) bool { return e.Size == "large" }},
		{FieldAlt, "logo", func(e Element) bool { return e.Alt == "logo" }},
		{FieldBrand, "Acme", func(e Element) bool { return e.Brand == "Acme" }},
		{FieldSrc, "a.png", func(e Element) bool { return e.Src == "a.png" }},
		{Field("col_span"), 2, func(e Element) bool { return string(e.Extra["col_span"]) == "2" }},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got := Update(doc, id, tt.field, tt.value)
			el, _ := got.Find(id)
			if !tt.check(el) {
				t.Errorf("Update(%s, %v) gave %+v", tt.field, tt.value, el)
			}
		})
	}
}

func TestApply(t *testing.T) {
	doc := stampedSample(t)
	id := doc.Sections[0].Elements[0].ID

	tests := []struct {
		name  string
		id    string
		field Field
		value interface{}
		want  bool
	}{
		{"typed field", id, FieldLabel, "Hi", true},
		{"same display text", id, FieldOptions, []string{"a, b"}, true},
		{"wrong type", id, FieldOptions, "a, b", false},
		{"unknown id", "missing", FieldLabel, "Hi", false},
		{"id is immutable", id, FieldID, "x", false},
		{"kind is immutable", id, FieldKind, "button", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Apply(doc, tt.id, tt.field, tt.value)
			if ok != tt.want {
				t.Errorf("Apply() ok = %v, want %v", ok, tt.want)
			}
			if got == doc {
				t.Error("Apply() must return a new document")
			}
		})
	}
}

func TestUpdate_TypedValueReplacesParkedJSON(t *testing.T) {
	doc := stampedSample(t)
	sel := doc.Sections[1].Elements[2]

	got := Update(doc, sel.ID, FieldOptions, []string{"NZ", "AU"})
	el, _ := got.Find(sel.ID)

	if _, parked := el.Extra["options"]; parked {
		t.Error("typed options should replace the parked raw value")
	}
	data, _ := json.Marshal(el)
	if want := `"options":["NZ","AU"]`; !strings.Contains(string(data), want) {
		t.Errorf("marshalled element %s missing %s", data, want)
	}
}

func TestUpdate_UnknownKindPreserved(t *testing.T) {
	doc := stampedSample(t)
	carousel := doc.Sections[0].Elements[2]

	got := Update(doc, carousel.ID, FieldLabel, "Hero")
	el, _ := got.Find(carousel.ID)

	if el.Kind != "carousel" {
		t.Errorf("Kind = %q, want carousel", el.Kind)
	}
	if string(el.Extra["slides"]) != "[1, 2, 3]" {
		t.Errorf("slides = %s", el.Extra["slides"])
	}
}

func TestParseFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		field   Field
		text    string
		want    interface{}
		wantErr bool
	}{
		{"label", KindText, FieldLabel, "  Hello ", "Hello", false},
		{"position ok", KindText, FieldPosition, "right", "right", false},
		{"position bad", KindText, FieldPosition, "top", nil, true},
		{"size bad", KindImage, FieldSize, "huge", nil, true},
		{"number value", KindNumber, FieldValue, "3.5", NumberValue(3.5), false},
		{"number value bad", KindNumber, FieldValue, "abc", nil, true},
		{"number value empty", KindNumber, FieldValue, "", (*Value)(nil), false},
		{"input value", KindInput, FieldValue, "abc", StringValue("abc"), false},
		{"options", KindSelect, FieldOptions, "a, b ,c", []string{"a", "b", "c"}, false},
		{"options empty", KindSelect, FieldOptions, "", []string{}, false},
		{"rows", KindTable, FieldRows, "a,b; c,d", [][]string{{"a", "b"}, {"c", "d"}}, false},
		{"items", KindNavbar, FieldItems, "Home:primary, Docs", []Item{{"Home", "primary"}, {"Docs", ""}}, false},
		{"items bad variant", KindNavbar, FieldItems, "Home:loud", nil, true},
		{"id", KindText, FieldID, "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFieldValue(tt.kind, tt.field, tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFieldValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFieldValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFieldText_ParsesBack(t *testing.T) {
	el := Element{
		Kind:    KindTable,
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1", "2"}, {"3", "4"}},
		Items:   []Item{{Label: "Home", Variant: "primary"}, {Label: "Docs"}},
	}

	for _, field := range []Field{FieldHeaders, FieldRows, FieldItems} {
		text := FieldText(el, field)
		value, err := ParseFieldValue(el.Kind, field, text)
		if err != nil {
			t.Fatalf("ParseFieldValue(%s, %q) error = %v", field, text, err)
		}
		got, _ := setField(el.Clone(), field, value)
		if !reflect.DeepEqual(got, el) {
			t.Errorf("%s: %q parsed back to %+v", field, text, got)
		}
	}
}

func TestEditableFields(t *testing.T) {
	for _, kind := range KnownKinds {
		fields := EditableFields(kind)
		if len(fields) == 0 {
			t.Errorf("EditableFields(%s) is empty", kind)
		}
		for _, f := range fields {
			if f == FieldID || f == FieldKind {
				t.Errorf("EditableFields(%s) offers %s", kind, f)
			}
		}
	}
	if got := EditableFields("carousel"); !reflect.DeepEqual(got, []Field{FieldLabel}) {
		t.Errorf("EditableFields(carousel) = %v", got)
	}
}
