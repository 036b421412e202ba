package selection

import "testing"

func TestTransitions(t *testing.T) {
	tests := []struct {
		name  string
		steps func(State) State
		want  State
	}{
		{"click from none", func(s State) State { return s.Click("a") }, Of("a")},
		{"click other", func(s State) State { return s.Click("a").Click("b") }, Of("b")},
		{"re-click", func(s State) State { return s.Click("a").Click("a") }, Of("a")},
		{"clear", func(s State) State { return s.Click("b").Clear() }, None},
		{"reset", func(s State) State { return s.Click("b").Reset() }, None},
		{"click outside", func(s State) State { return s.Click("a").Click("") }, Of("a")},
		{"clear when none", func(s State) State { return s.Clear() }, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.steps(None); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestState_IsValue(t *testing.T) {
	a := None.Click("a")
	b := a.Click("b")

	if a.ID() != "a" {
		t.Errorf("earlier state changed to %s", a)
	}
	if !b.Is("b") || b.Is("a") || b.Is("") {
		t.Errorf("Is() wrong for %s", b)
	}
	if None.Selected() || !b.Selected() {
		t.Error("Selected() wrong")
	}
	if None.String() != "none" || b.String() != "selected(b)" {
		t.Errorf("String() = %q, %q", None.String(), b.String())
	}
}
