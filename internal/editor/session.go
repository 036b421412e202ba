// Package editor owns the live editing state of one canvas.
//
// A Session holds the current document, selection, theme and mode and
// replaces them wholesale on every transition. It is not safe for concurrent
// use: the terminal program drives it from its single update loop. Other
// goroutines only ever see Snapshots, which are immutable.
package editor

import (
	"fmt"

	"github.com/muurk/sketchui/internal/logging"
	"github.com/muurk/sketchui/internal/render"
	"github.com/muurk/sketchui/internal/screen"
	"github.com/muurk/sketchui/internal/selection"
	"github.com/muurk/sketchui/internal/theme"
)

// Snapshot is an immutable view of a session. Screen must not be modified.
type Snapshot struct {
	Version  uint64
	Screen   *screen.Screen
	Selected string
	Theme    string
	Mode     render.Mode
}

// Observer is notified after every transition.
type Observer func(Snapshot)

// Session is the serial owner of (document, selection, theme, mode).
type Session struct {
	themes   *theme.Registry
	assigner screen.Assigner

	doc       *screen.Screen
	sel       selection.State
	themeName string
	mode      render.Mode
	version   uint64

	observers []Observer
}

// Option configures a Session.
type Option func(*Session)

// WithTheme sets the initial theme. Unknown names fall back to the default.
func WithTheme(name string) Option {
	return func(s *Session) {
		if _, ok := s.themes.Get(name); ok {
			s.themeName = name
		}
	}
}

// WithMode sets the initial mode.
func WithMode(m render.Mode) Option {
	return func(s *Session) {
		s.mode = m
	}
}

// WithAssigner replaces the id assigner used on ingestion.
func WithAssigner(a screen.Assigner) Option {
	return func(s *Session) {
		s.assigner = a
	}
}

// WithObserver registers a function called after every transition.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// New creates a session with no document.
func New(themes *theme.Registry, opts ...Option) *Session {
	s := &Session{
		themes:    themes,
		themeName: themes.Default().Name,
		mode:      render.ModeEdit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document returns the current document, or nil before the first ingestion.
func (s *Session) Document() *screen.Screen { return s.doc }

// Selection returns the selection state.
func (s *Session) Selection() selection.State { return s.sel }

// Theme returns the active theme.
func (s *Session) Theme() theme.Theme { return s.themes.MustGet(s.themeName) }

// Mode returns the interaction mode.
func (s *Session) Mode() render.Mode { return s.mode }

// Themes returns the registry the session draws themes from.
func (s *Session) Themes() *theme.Registry { return s.themes }

// Ingest replaces the document with a freshly received description. Ids are
// stamped here, once, and the selection is reset.
func (s *Session) Ingest(source string, raw *screen.Screen) {
	if raw == nil {
		raw = &screen.Screen{}
	}
	s.doc = s.assigner.Assign(raw)
	if s.sel.Selected() {
		logging.LogSelection(s.sel.String(), selection.None.String())
	}
	s.sel = s.sel.Reset()
	logging.LogIngest(source, s.doc.DisplayName(), len(s.doc.Elements()))
	s.changed()
}

// IngestFailed records a failed ingestion. The current document and
// selection are kept. The returned notice is meant for the operator.
func (s *Session) IngestFailed(source string, err error) Notice {
	logging.LogIngestFailure(source, err)
	return Errorf("%s failed: %v", source, err)
}

// Click selects the element with the given id. Ids not in the document are
// ignored. It reports whether the selection changed.
func (s *Session) Click(id string) bool {
	if _, ok := s.doc.Find(id); !ok {
		return false
	}
	return s.setSelection(s.sel.Click(id))
}

// ClickAt handles a click on canvas cell (x, y) of a canvas composed at
// width. In edit mode it selects the element under the cell. In preview mode
// a click on an interactive element returns its Action and leaves the
// selection alone. Clicks outside every element change nothing.
func (s *Session) ClickAt(x, y, width int) (render.Action, bool) {
	canvas := s.Canvas(width)
	id, ok := canvas.HitTest(x, y)
	if !ok {
		return render.Action{}, false
	}
	if s.mode == render.ModePreview {
		return render.ActionFor(canvas.Nodes[id])
	}
	s.Click(id)
	return render.Action{}, false
}

// Clear drops the selection.
func (s *Session) Clear() bool {
	return s.setSelection(s.sel.Clear())
}

// Focus moves the selection delta elements forward (or backward when
// negative) in render order, wrapping at the ends. With nothing selected it
// starts from the first or last element.
func (s *Session) Focus(delta int) bool {
	ids := s.doc.ElementIDs()
	if len(ids) == 0 || delta == 0 {
		return false
	}

	next := 0
	if delta < 0 {
		next = len(ids) - 1
	}
	for i, id := range ids {
		if s.sel.Is(id) {
			next = ((i+delta)%len(ids) + len(ids)) % len(ids)
			break
		}
	}
	return s.setSelection(s.sel.Click(ids[next]))
}

// Edit sets field on the selected element. See screen.Update for value types.
func (s *Session) Edit(field screen.Field, value interface{}) error {
	if !s.sel.Selected() {
		return fmt.Errorf("no element selected")
	}
	return s.EditElement(s.sel.ID(), field, value)
}

// EditText parses text for field and sets it on the selected element.
func (s *Session) EditText(field screen.Field, text string) error {
	el, ok := s.SelectedElement()
	if !ok {
		return fmt.Errorf("no element selected")
	}
	value, err := screen.ParseFieldValue(el.Kind, field, text)
	if err != nil {
		return err
	}
	return s.EditElement(el.ID, field, value)
}

// EditElement sets field on the element with the given id. Editing an id
// that is not in the document is a no-op, as is editing the id or kind.
func (s *Session) EditElement(id string, field screen.Field, value interface{}) error {
	if s.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	next, applied := screen.Apply(s.doc, id, field, value)
	logging.LogEdit(id, string(field), applied)
	if !applied {
		return nil
	}

	s.doc = next
	s.changed()
	return nil
}

// SelectedElement returns the selected element.
func (s *Session) SelectedElement() (screen.Element, bool) {
	if !s.sel.Selected() {
		return screen.Element{}, false
	}
	return s.doc.Find(s.sel.ID())
}

// SetTheme switches the active theme. The document is not touched.
func (s *Session) SetTheme(name string) error {
	if _, ok := s.themes.Get(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, s.themes.List())
	}
	if name == s.themeName {
		return nil
	}
	logging.LogThemeSwitch(s.themeName, name)
	s.themeName = name
	s.changed()
	return nil
}

// CycleTheme switches to the next registered theme and returns its name.
func (s *Session) CycleTheme() string {
	next := s.themes.Next(s.themeName)
	_ = s.SetTheme(next)
	return next
}

// ToggleMode flips between edit and preview mode and returns the new mode.
func (s *Session) ToggleMode() render.Mode {
	s.mode = s.mode.Toggle()
	s.changed()
	return s.mode
}

// Canvas composes the current state at width.
func (s *Session) Canvas(width int) render.Canvas {
	return render.Compose(s.doc, render.Options{
		Width:    width,
		Theme:    s.Theme(),
		Selected: s.sel.ID(),
		Mode:     s.mode,
	})
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Version:  s.version,
		Screen:   s.doc,
		Selected: s.sel.ID(),
		Theme:    s.themeName,
		Mode:     s.mode,
	}
}

func (s *Session) setSelection(next selection.State) bool {
	if next == s.sel {
		return false
	}
	logging.LogSelection(s.sel.String(), next.String())
	s.sel = next
	s.changed()
	return true
}

// changed bumps the version and notifies observers.
func (s *Session) changed() {
	s.version++
	snap := s.Snapshot()
	for _, o := range s.observers {
		o(snap)
	}
}
