package theme

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultTheme is the theme used when no theme is requested.
const DefaultTheme = "light"

//go:embed themes.yaml
var builtinThemes []byte

// File is the YAML shape of a theme file.
type File struct {
	Themes []Theme `yaml:"themes"`
}

// Registry holds themes by name in insertion order.
type Registry struct {
	themes      map[string]Theme
	order       []string
	defaultName string
}

// NewRegistry returns a registry holding the built-in themes.
func NewRegistry() *Registry {
	r, err := Load(builtinThemes)
	if err != nil {
		panic(fmt.Sprintf("theme: embedded themes are invalid: %v", err))
	}
	return r
}

// Load builds a registry from a YAML theme file. The first theme becomes
// the default unless a theme named DefaultTheme is present.
func Load(data []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse themes: %w", err)
	}
	if len(f.Themes) == 0 {
		return nil, fmt.Errorf("theme file defines no themes")
	}

	r := &Registry{themes: make(map[string]Theme)}
	for _, t := range f.Themes {
		if err := r.Add(t); err != nil {
			return nil, err
		}
	}
	r.defaultName = r.order[0]
	if _, ok := r.themes[DefaultTheme]; ok {
		r.defaultName = DefaultTheme
	}
	return r, nil
}

// Add registers a theme. A theme with an existing name replaces it in place;
// a new name is appended. A theme with Extends set starts from the named
// theme and overrides only the fields it sets.
func (r *Registry) Add(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme name cannot be empty")
	}
	if t.Extends != "" {
		base, ok := r.themes[t.Extends]
		if !ok {
			return fmt.Errorf("theme %q extends unknown theme %q", t.Name, t.Extends)
		}
		t = overlay(base, t)
	}
	if t.Foreground == "" {
		return fmt.Errorf("theme %q has no foreground color", t.Name)
	}

	if _, exists := r.themes[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.themes[t.Name] = t
	return nil
}

// Get returns the named theme.
func (r *Registry) Get(name string) (Theme, bool) {
	t, ok := r.themes[name]
	return t, ok
}

// MustGet returns the named theme, or the default theme if name is unknown.
func (r *Registry) MustGet(name string) Theme {
	if t, ok := r.themes[name]; ok {
		return t
	}
	return r.Default()
}

// Default returns the default theme.
func (r *Registry) Default() Theme {
	return r.themes[r.defaultName]
}

// List returns theme names in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Next returns the theme after name in List order, wrapping around. An
// unknown name yields the first theme.
func (r *Registry) Next(name string) string {
	for i, n := range r.order {
		if n == name {
			return r.order[(i+1)%len(r.order)]
		}
	}
	return r.order[0]
}
