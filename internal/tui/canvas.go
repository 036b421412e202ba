package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/render"
	"github.com/muurk/sketchui/internal/screen"
)

// wheelStep is how many rows one mouse wheel notch scrolls.
const wheelStep = 3

// inspector is the side panel listing the selected element's fields.
type inspector struct {
	field     int // cursor into screen.EditableFields
	editing   bool
	editField screen.Field
	input     textinput.Model
}

func newInspector() inspector {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.PromptStyle = FocusedInputStyle
	ti.CharLimit = 1024
	ti.Width = InspectorWidth - 6
	return inspector{input: ti}
}

func (i *inspector) cancel() {
	i.editing = false
	i.input.Blur()
	i.input.SetValue("")
}

func (i *inspector) reset() {
	i.field = 0
	i.cancel()
}

func (m AppModel) showInspector() bool {
	return m.Width-InspectorWidth >= MinCanvasWidth
}

func (m AppModel) canvasWidth() int {
	if m.showInspector() {
		return m.Width - InspectorWidth
	}
	return m.Width
}

func (m AppModel) contentHeight() int {
	h := m.Height - headerLines - footerLines
	if h < 1 {
		return 1
	}
	return h
}

// resize fits the viewport and sub-screens to the terminal.
func (m *AppModel) resize() {
	w, h := m.canvasWidth(), m.contentHeight()
	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(w, h)
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.Upload.SetWidth(m.Width)
	m.Discover.SetSize(m.Width, h)
	m.refresh()
}

// refresh recomposes the canvas after a session transition.
func (m *AppModel) refresh() {
	m.canvas = m.session.Canvas(m.canvasWidth())
	m.viewport.SetContent(m.canvas.View)

	el, ok := m.session.SelectedElement()
	if !ok {
		m.inspect.field = 0
		return
	}
	if n := len(screen.EditableFields(el.Kind)); m.inspect.field >= n {
		m.inspect.field = n - 1
	}
	m.scrollToSelection()
}

// scrollToSelection keeps the selected element's frame in view.
func (m *AppModel) scrollToSelection() {
	r, ok := m.canvas.Region(m.session.Selection().ID())
	if !ok {
		return
	}
	switch {
	case r.Y < m.viewport.YOffset:
		m.viewport.SetYOffset(r.Y)
	case r.Y+r.H > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(r.Y + r.H - m.viewport.Height)
	}
}

func (m *AppModel) scroll(delta int) {
	m.viewport.SetYOffset(m.viewport.YOffset + delta)
}

// updateCanvas handles input on the canvas screen
func (m AppModel) updateCanvas(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.inspect.editing {
			return m.updateEditing(msg)
		}
		return m.handleCanvasKey(msg)
	}

	if m.inspect.editing {
		var cmd tea.Cmd
		m.inspect.input, cmd = m.inspect.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleCanvasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.CanvasKeys

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Next):
		m.session.Focus(1)
		m.inspect.field = 0
		m.refresh()

	case key.Matches(msg, keys.Prev):
		m.session.Focus(-1)
		m.inspect.field = 0
		m.refresh()

	case key.Matches(msg, keys.Clear):
		m.session.Clear()
		m.refresh()

	case key.Matches(msg, keys.Edit):
		return m.startEdit()

	case key.Matches(msg, keys.Up):
		m.moveField(-1)

	case key.Matches(msg, keys.Down):
		m.moveField(1)

	case key.Matches(msg, keys.Theme):
		name := m.session.CycleTheme()
		m.refresh()
		return m, m.setNotice(editor.Infof("Theme: %s", name))

	case key.Matches(msg, keys.Mode):
		mode := m.session.ToggleMode()
		m.refresh()
		if mode == render.ModePreview {
			return m, m.setNotice(editor.Infof("Preview mode: clicks trigger actions"))
		}
		return m, m.setNotice(editor.Infof("Edit mode: clicks select elements"))

	case key.Matches(msg, keys.Upload):
		m.CurrentScreen = ScreenUpload
		return m, m.Upload.Focus()

	case key.Matches(msg, keys.Reload):
		if m.path == "" {
			return m, m.setNotice(editor.Errorf("Nothing to reload: no description file"))
		}
		return m, loadFileCmd(m.path)

	case key.Matches(msg, keys.Discover):
		m.CurrentScreen = ScreenDiscover
		return m, m.Discover.Start(m.scanner)

	case key.Matches(msg, keys.ScrollUp):
		m.scroll(-m.viewport.Height / 2)

	case key.Matches(msg, keys.ScrollDown):
		m.scroll(m.viewport.Height / 2)
	}
	return m, nil
}

// moveField moves the inspector cursor, wrapping at the ends.
func (m *AppModel) moveField(delta int) {
	el, ok := m.session.SelectedElement()
	if !ok {
		return
	}
	n := len(screen.EditableFields(el.Kind))
	m.inspect.field = ((m.inspect.field+delta)%n + n) % n
}

// startEdit opens the field under the inspector cursor. With nothing
// selected it selects the first element instead. In preview mode enter
// activates the selected element like a click would.
func (m AppModel) startEdit() (tea.Model, tea.Cmd) {
	el, ok := m.session.SelectedElement()
	if !ok {
		m.session.Focus(1)
		m.refresh()
		return m, nil
	}

	if m.session.Mode() == render.ModePreview {
		if action, ok := render.ActionFor(m.canvas.Nodes[el.ID]); ok {
			return m, m.setNotice(editor.Infof("%s", action))
		}
		return m, m.setNotice(editor.Errorf("Switch to edit mode (p) to change fields"))
	}

	fields := screen.EditableFields(el.Kind)
	field := fields[m.inspect.field%len(fields)]
	m.inspect.editing = true
	m.inspect.editField = field
	m.inspect.input.SetValue(screen.FieldText(el, field))
	m.inspect.input.CursorEnd()
	return m, m.inspect.input.Focus()
}

// updateEditing handles keys while a field is open.
func (m AppModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.EditKeys.Save):
		field := m.inspect.editField
		if err := m.session.EditText(field, m.inspect.input.Value()); err != nil {
			return m, m.setNotice(editor.Errorf("%s: %v", field, err))
		}
		m.inspect.cancel()
		m.refresh()
		return m, m.setNotice(editor.Infof("Updated %s", field))

	case key.Matches(msg, m.EditKeys.Cancel):
		m.inspect.cancel()
		return m, nil
	}

	var cmd tea.Cmd
	m.inspect.input, cmd = m.inspect.input.Update(msg)
	return m, cmd
}

// handleMouse maps a click on the canvas to a session click.
func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-wheelStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll(wheelStep)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	x, y := msg.X, msg.Y-headerLines
	if y < 0 || y >= m.contentHeight() || x < 0 || x >= m.canvasWidth() {
		return m, nil
	}

	before := m.session.Selection()
	action, ok := m.session.ClickAt(x, y+m.viewport.YOffset, m.canvasWidth())
	if m.session.Selection() != before {
		m.inspect.reset()
	}
	m.refresh()
	if ok {
		return m, m.setNotice(editor.Infof("%s", action))
	}
	return m, nil
}

// canvasView renders the viewport and, when there is room, the inspector.
func (m AppModel) canvasView() string {
	view := m.viewport.View()
	if !m.showInspector() {
		return view
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, view, m.inspectorView())
}

func (m AppModel) inspectorView() string {
	inner := InspectorWidth - 2 // left border and padding
	valueWidth := inner - 2 - FieldKeyStyle.GetWidth()

	row := func(k, v string) string {
		return FieldKeyStyle.Render(k) + FieldValueStyle.Render(truncate(v, valueWidth))
	}

	lines := []string{RenderTitle("INSPECTOR")}

	el, ok := m.session.SelectedElement()
	if !ok {
		lines = append(lines,
			RenderSubtitle("Nothing selected"),
			HelpStyle.Render(truncate("tab or click to select", inner)),
		)
	} else {
		kind := string(el.Kind)
		if !el.Kind.Known() {
			kind += " (unknown)"
		}
		lines = append(lines, row("id", el.ID), row("type", kind), "")

		for i, f := range screen.EditableFields(el.Kind) {
			if m.inspect.editing && f == m.inspect.editField {
				lines = append(lines, SelectedFieldStyle.Render(string(f)), m.inspect.input.View())
				continue
			}
			text := screen.FieldText(el, f)
			if text == "" {
				text = "—"
			}
			if i == m.inspect.field {
				lines = append(lines, SelectedFieldStyle.Render("› ")+FieldKeyStyle.Render(string(f))+
					FieldValueStyle.Render(truncate(text, valueWidth)))
			} else {
				lines = append(lines, "  "+row(string(f), text))
			}
		}
	}

	doc := m.session.Document()
	lines = append(lines, "",
		row("theme", m.session.Theme().Name),
		row("mode", m.session.Mode().String()),
		row("elements", strconv.Itoa(len(doc.Elements()))),
	)
	if v := m.session.Snapshot().Version; v > 0 {
		lines = append(lines, row("version", fmt.Sprintf("%d", v)))
	}

	h := m.contentHeight()
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(BorderColor).
		PaddingLeft(1).
		Width(InspectorWidth - 1).
		Height(h).
		MaxHeight(h).
		Render(strings.Join(lines, "\n"))
}
