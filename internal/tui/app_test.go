package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/sketchui/internal/discovery"
	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/ingest"
	"github.com/muurk/sketchui/internal/render"
	"github.com/muurk/sketchui/internal/screen"
	"github.com/muurk/sketchui/internal/theme"
)

func counterAssigner() screen.Assigner {
	n := 0
	return screen.Assigner{NewID: func() string {
		n++
		return fmt.Sprintf("el-%d", n)
	}}
}

func loginScreen() *screen.Screen {
	return &screen.Screen{
		Name: "Login",
		Sections: []screen.Section{{Title: "Form", Elements: []screen.Element{
			{Kind: screen.KindInput, Label: "Email"},
			{Kind: screen.KindNumber, Label: "Age"},
			{Kind: screen.KindButton, Label: "Sign in"},
		}}},
	}
}

func newTestModel(t *testing.T, opts Options) AppModel {
	t.Helper()
	if opts.Session == nil {
		opts.Session = editor.New(theme.NewRegistry(), editor.WithAssigner(counterAssigner()))
		opts.Session.Ingest("test", loginScreen())
	}
	m, _ := send(NewAppModel(opts), tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func send(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m AppModel, keys ...string) AppModel {
	for _, k := range keys {
		m, _ = send(m, keyPress(k))
	}
	return m
}

func clickOn(t *testing.T, m AppModel, id string) (AppModel, tea.Cmd) {
	t.Helper()
	r, ok := m.canvas.Region(id)
	if !ok {
		t.Fatalf("no region for %s", id)
	}
	return send(m, tea.MouseMsg{
		X:      r.X + 1,
		Y:      r.Y + headerLines - m.viewport.YOffset,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
}

func TestNewAppModel(t *testing.T) {
	m := newTestModel(t, Options{})

	if m.CurrentScreen != ScreenCanvas {
		t.Errorf("CurrentScreen = %s, want canvas", m.CurrentScreen)
	}
	if !m.showInspector() || m.canvasWidth() != 120-InspectorWidth {
		t.Errorf("canvasWidth = %d, inspector shown = %v", m.canvasWidth(), m.showInspector())
	}
	if len(m.canvas.Regions) != 3 {
		t.Errorf("regions = %d, want 3", len(m.canvas.Regions))
	}
}

func TestView(t *testing.T) {
	m := NewAppModel(Options{Session: editor.New(theme.NewRegistry())})
	if got := m.View(); got != "Loading…" {
		t.Errorf("View() before size = %q", got)
	}

	m = newTestModel(t, Options{Preview: "http://127.0.0.1:7070"})
	view := m.View()
	for _, want := range []string{AppName, "Login", "INSPECTOR", "Nothing selected", "Email", "theme light", "http://127.0.0.1:7070"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_NarrowHidesInspector(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, tea.WindowSizeMsg{Width: MinCanvasWidth + InspectorWidth - 1, Height: 30})

	if m.showInspector() {
		t.Error("inspector should be hidden on a narrow terminal")
	}
	if strings.Contains(m.View(), "INSPECTOR") {
		t.Error("View() should not render the inspector")
	}
}

func TestFocusKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"tab"}, "el-1"},
		{[]string{"tab", "tab"}, "el-2"},
		{[]string{"tab", "tab", "tab", "tab"}, "el-1"},
		{[]string{"shift+tab"}, "el-3"},
		{[]string{"tab", "esc"}, ""},
		{[]string{"enter"}, "el-1"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			m := press(newTestModel(t, Options{}), tt.keys...)
			if got := m.Session().Selection().ID(); got != tt.want {
				t.Errorf("selection = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClickSelects(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = clickOn(t, m, "el-3")
	if got := m.Session().Selection().ID(); got != "el-3" {
		t.Fatalf("selection = %q, want el-3", got)
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Error("inspector should show the selected element")
	}

	// Clicks on the header or outside the canvas are ignored.
	m, _ = send(m, tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(m, tea.MouseMsg{X: m.canvasWidth() + 2, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.Session().Selection().ID(); got != "el-3" {
		t.Errorf("selection = %q after ignored clicks", got)
	}
}

func TestPreviewClickReportsAction(t *testing.T) {
	m := press(newTestModel(t, Options{}), "p")
	if m.Session().Mode() != render.ModePreview {
		t.Fatalf("mode = %s, want preview", m.Session().Mode())
	}

	m, _ = clickOn(t, m, "el-3")
	if m.Session().Selection().Selected() {
		t.Error("preview click must not select")
	}
	if !strings.Contains(m.Notice().Text, `"Sign in" pressed`) {
		t.Errorf("notice = %q", m.Notice().Text)
	}
}

func TestEditField(t *testing.T) {
	m := press(newTestModel(t, Options{}), "tab", "enter")
	if !m.inspect.editing || m.inspect.editField != screen.FieldLabel {
		t.Fatalf("editing = %v field = %s", m.inspect.editing, m.inspect.editField)
	}
	if m.inspect.input.Value() != "Email" {
		t.Errorf("input seeded with %q, want Email", m.inspect.input.Value())
	}

	m.inspect.input.SetValue("Work email")
	m = press(m, "enter")

	el, _ := m.Session().SelectedElement()
	if el.Label != "Work email" {
		t.Errorf("label = %q", el.Label)
	}
	if m.inspect.editing {
		t.Error("apply should close the editor")
	}
	if m.Notice().IsError() {
		t.Errorf("notice = %q", m.Notice().Text)
	}
}

func TestEditField_InvalidValueStaysOpen(t *testing.T) {
	// Age is a number; its value is the third field.
	m := press(newTestModel(t, Options{}), "tab", "tab", "down", "down", "enter")
	if m.inspect.editField != screen.FieldValue {
		t.Fatalf("editField = %s, want value", m.inspect.editField)
	}

	m.inspect.input.SetValue("forty")
	m = press(m, "enter")
	if !m.inspect.editing {
		t.Error("editor should stay open after a rejected value")
	}
	if !m.Notice().IsError() {
		t.Errorf("notice = %+v, want an error", m.Notice())
	}

	m = press(m, "esc")
	if m.inspect.editing {
		t.Error("esc should cancel editing")
	}
	if !m.Session().Selection().Selected() {
		t.Error("cancelling an edit keeps the selection")
	}
}

func TestFieldCursorWraps(t *testing.T) {
	m := press(newTestModel(t, Options{}), "tab", "up")
	if want := len(screen.EditableFields(screen.KindInput)) - 1; m.inspect.field != want {
		t.Errorf("field = %d, want %d", m.inspect.field, want)
	}
}

func TestThemeAndModeKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	before := m.Session().Theme().Name

	m = press(m, "t")
	if m.Session().Theme().Name == before {
		t.Error("t should switch theme")
	}
	if !strings.Contains(m.Notice().Text, "Theme: ") {
		t.Errorf("notice = %q", m.Notice().Text)
	}

	m = press(m, "p", "p")
	if m.Session().Mode() != render.ModeEdit {
		t.Errorf("mode = %s, want edit", m.Session().Mode())
	}
}

func TestNoticeExpiry(t *testing.T) {
	m := press(newTestModel(t, Options{}), "t")
	stale := m.noticeID
	m = press(m, "t")

	m, _ = send(m, noticeExpiredMsg{id: stale})
	if m.Notice().Text == "" {
		t.Fatal("a superseded timer must not clear the newer notice")
	}
	m, _ = send(m, noticeExpiredMsg{id: m.noticeID})
	if m.Notice().Text != "" {
		t.Errorf("notice = %q after expiry", m.Notice().Text)
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	m := newTestModel(t, Options{Path: path})

	_, cmd := send(m, keyPress("r"))
	if cmd == nil {
		t.Fatal("r should load the file")
	}
	msg := cmd()
	m, _ = send(m, msg)
	if !m.Notice().IsError() || len(m.Session().Document().Elements()) != 3 {
		t.Errorf("missing file: notice = %+v, elements = %d", m.Notice(), len(m.Session().Document().Elements()))
	}

	if err := os.WriteFile(path, []byte(`{"screen_name":"Settings","sections":[{"elements":[{"type":"heading","label":"Settings"}]}]}`), 0600); err != nil {
		t.Fatal(err)
	}
	m = press(m, "tab")
	m, _ = send(m, loadFileCmd(path)())
	if m.Session().Document().Name != "Settings" {
		t.Errorf("document = %q, want Settings", m.Session().Document().Name)
	}
	if m.Session().Selection().Selected() {
		t.Error("reload resets the selection")
	}
}

func TestReload_WithoutPath(t *testing.T) {
	m, cmd := send(newTestModel(t, Options{}), keyPress("r"))
	if !m.Notice().IsError() {
		t.Errorf("notice = %+v, want an error", m.Notice())
	}
	if cmd == nil {
		t.Error("the notice should schedule its expiry")
	}
}

func TestUploadScreen(t *testing.T) {
	m := press(newTestModel(t, Options{Client: ingest.NewClient("http://describer:8000")}), "u")
	if m.CurrentScreen != ScreenUpload {
		t.Fatalf("CurrentScreen = %s", m.CurrentScreen)
	}
	if m.Upload.URL.Value() != "http://describer:8000" {
		t.Errorf("URL = %q", m.Upload.URL.Value())
	}

	m = press(m, "enter")
	if m.Upload.Describing || !m.Notice().IsError() {
		t.Error("submitting without a path should be refused")
	}

	m = press(m, "esc")
	if m.CurrentScreen != ScreenCanvas {
		t.Errorf("esc should return to the canvas, got %s", m.CurrentScreen)
	}
}

func startUpload(t *testing.T, m AppModel, path string) AppModel {
	t.Helper()
	m = press(m, "u")
	m.Upload.Path.SetValue(path)
	m, cmd := send(m, keyPress("enter"))
	if !m.Upload.Describing || cmd == nil {
		t.Fatal("enter should start describing")
	}
	return m
}

func TestHandleDescribed(t *testing.T) {
	m := startUpload(t, newTestModel(t, Options{Client: ingest.NewClient("")}), "sketch.png")

	doc := &screen.Screen{Name: "Dashboard", Sections: []screen.Section{{Elements: []screen.Element{
		{Kind: screen.KindHeading, Label: "Overview"},
	}}}}

	// A result from an older upload is dropped.
	m, _ = send(m, describeDoneMsg{seq: m.Upload.seq - 1, path: "old.png", doc: &screen.Screen{Name: "Old"}})
	if m.Session().Document().Name != "Login" || !m.Upload.Describing {
		t.Fatal("stale result should be ignored")
	}

	m, _ = send(m, describeDoneMsg{seq: m.Upload.seq, path: "sketch.png", doc: doc})
	if m.Session().Document().Name != "Dashboard" {
		t.Errorf("document = %q", m.Session().Document().Name)
	}
	if m.CurrentScreen != ScreenCanvas || m.Upload.Describing {
		t.Errorf("screen = %s describing = %v", m.CurrentScreen, m.Upload.Describing)
	}
	if m.Session().Document().Elements()[0].ID == "" {
		t.Error("described elements should be stamped")
	}
}

func TestHandleDescribed_Failure(t *testing.T) {
	m := startUpload(t, newTestModel(t, Options{Client: ingest.NewClient("")}), "sketch.png")

	err := ingest.NewNetworkError("upload failed", errors.New("connection reset"))
	m, _ = send(m, describeDoneMsg{seq: m.Upload.seq, path: "sketch.png", err: err})

	if m.Session().Document().Name != "Login" {
		t.Error("a failed upload keeps the document")
	}
	if m.CurrentScreen != ScreenUpload {
		t.Errorf("screen = %s, want upload for a retry", m.CurrentScreen)
	}
	if !m.Notice().IsError() || !strings.Contains(m.Notice().Text, "describer unreachable") {
		t.Errorf("notice = %q", m.Notice().Text)
	}
}

func TestUploadCancel(t *testing.T) {
	m := startUpload(t, newTestModel(t, Options{Client: ingest.NewClient("")}), "sketch.png")
	seq := m.Upload.seq

	m = press(m, "esc")
	if m.Upload.Describing {
		t.Fatal("esc should cancel describing")
	}
	m, _ = send(m, describeDoneMsg{seq: seq, path: "sketch.png", doc: &screen.Screen{Name: "Late"}})
	if m.Session().Document().Name == "Late" {
		t.Error("a cancelled upload must not be applied")
	}
}

func TestDescribeCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","ui_description":{"screen_name":"Login","sections":[{"elements":[{"type":"button","label":"Go"}]}]}}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "sketch.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nDATA"), 0600); err != nil {
		t.Fatal(err)
	}

	msg, ok := describeCmd(context.Background(), ingest.NewClient(server.URL), 7, path)().(describeDoneMsg)
	if !ok {
		t.Fatal("describeCmd should produce a describeDoneMsg")
	}
	if msg.err != nil || msg.seq != 7 || msg.doc.Name != "Login" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestDiscoverSelect(t *testing.T) {
	m := newTestModel(t, Options{Client: ingest.NewClient("")})
	m.CurrentScreen = ScreenDiscover
	m.Discover.Scanning = true
	m.Discover.seq = 2

	svc := &discovery.Service{Instance: "studio", Host: "studio.local.", IP: "192.168.1.20", Port: 8000}

	m, _ = send(m, scanCompleteMsg{seq: 1, services: nil})
	if !m.Discover.Scanning {
		t.Fatal("a superseded scan result should be ignored")
	}
	m, _ = send(m, scanCompleteMsg{seq: 2, services: []*discovery.Service{svc}})
	if m.Discover.Scanning || len(m.Discover.List.Items()) != 1 {
		t.Fatalf("scanning = %v items = %d", m.Discover.Scanning, len(m.Discover.List.Items()))
	}
	if !strings.Contains(m.View(), "studio") {
		t.Error("View() should list the service")
	}

	m = press(m, "enter")
	if m.client.BaseURL != "http://192.168.1.20:8000" {
		t.Errorf("BaseURL = %q", m.client.BaseURL)
	}
	if m.CurrentScreen != ScreenUpload || m.Upload.URL.Value() != m.client.BaseURL {
		t.Errorf("screen = %s URL = %q", m.CurrentScreen, m.Upload.URL.Value())
	}
}

func TestDiscover_NoServices(t *testing.T) {
	m := newTestModel(t, Options{})
	m.CurrentScreen = ScreenDiscover
	m.Discover.Scanning = true
	m.Discover.seq = 1

	m, _ = send(m, scanCompleteMsg{seq: 1})
	if !strings.Contains(m.View(), "NO DESCRIBERS FOUND") {
		t.Error("View() should say nothing was found")
	}
	m = press(m, "esc")
	if m.CurrentScreen != ScreenUpload {
		t.Errorf("screen = %s, want upload", m.CurrentScreen)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 6, "much …"},
		{"two\nlines", 20, "two lines"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
