package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/ingest"
)

const (
	uploadFieldPath = iota
	uploadFieldURL
)

// UploadModel is the form that sends a sketch image to the describer.
type UploadModel struct {
	Path    textinput.Model
	URL     textinput.Model
	Spinner spinner.Model
	Keys    uploadKeyMap

	focus      int
	Describing bool
	seq        int
	cancel     context.CancelFunc
	width      int
}

// NewUploadModel creates the upload form. The describer URL is seeded from
// client.
func NewUploadModel(client *ingest.Client) UploadModel {
	path := textinput.New()
	path.Placeholder = "sketch.png"
	path.Prompt = "› "
	path.CharLimit = 4096
	path.Width = 48

	url := textinput.New()
	url.Placeholder = ingest.DefaultBaseURL
	url.Prompt = "› "
	url.CharLimit = 512
	url.Width = 48
	if client != nil {
		url.SetValue(client.BaseURL)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return UploadModel{
		Path:    path,
		URL:     url,
		Spinner: s,
		Keys:    newUploadKeyMap(),
	}
}

// Focus focuses the image path input.
func (u *UploadModel) Focus() tea.Cmd {
	u.focus = uploadFieldPath
	u.URL.Blur()
	return u.Path.Focus()
}

func (u *UploadModel) switchFocus() tea.Cmd {
	if u.focus == uploadFieldPath {
		u.focus = uploadFieldURL
		u.Path.Blur()
		return u.URL.Focus()
	}
	return u.Focus()
}

// SetWidth fits the inputs to the terminal width.
func (u *UploadModel) SetWidth(width int) {
	u.width = width
	w := width - 16
	if w < 20 {
		w = 20
	}
	u.Path.Width = w
	u.URL.Width = w
}

func (u *UploadModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if u.focus == uploadFieldURL {
		u.URL, cmd = u.URL.Update(msg)
	} else {
		u.Path, cmd = u.Path.Update(msg)
	}
	return cmd
}

// stop cancels an in-flight describe.
func (u *UploadModel) stop() {
	if u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
	u.Describing = false
}

// View renders the upload form.
func (u UploadModel) View(width int) string {
	input := func(label string, ti textinput.Model, focused bool) string {
		style := BlurredInputStyle
		if focused {
			style = FocusedInputStyle
		}
		return FieldKeyStyle.Render(label) + "\n" + style.Render(ti.View())
	}

	lines := []string{
		RenderTitle("UPLOAD SKETCH"),
		RenderSubtitle("Send an image to the describer and edit the result"),
		"",
		input("Image", u.Path, u.focus == uploadFieldPath),
		"",
		input("Describer", u.URL, u.focus == uploadFieldURL),
		"",
	}
	if u.Describing {
		lines = append(lines, u.Spinner.View()+" Describing "+filepath.Base(strings.TrimSpace(u.Path.Value()))+"…")
	}

	w := width - 4
	if w > 80 {
		w = 80
	}
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).Render(
		BoxStyle.Width(w).Render(strings.Join(lines, "\n")),
	)
}

// updateUpload handles input on the upload screen
func (m AppModel) updateUpload(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		keys := m.Upload.Keys
		if m.Upload.Describing {
			if key.Matches(msg, keys.Cancel) {
				m.Upload.stop()
				return m, m.setNotice(editor.Infof("Upload cancelled"))
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Cancel):
			m.Upload.Path.Blur()
			m.Upload.URL.Blur()
			m.CurrentScreen = ScreenCanvas
			return m, nil

		case key.Matches(msg, keys.Switch):
			return m, m.Upload.switchFocus()

		case key.Matches(msg, keys.Discover):
			m.CurrentScreen = ScreenDiscover
			return m, m.Discover.Start(m.scanner)

		case key.Matches(msg, keys.Submit):
			return m.submitUpload()
		}
	}

	return m, m.Upload.updateFocused(msg)
}

// submitUpload starts describing the image named in the form.
func (m AppModel) submitUpload() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.Upload.Path.Value())
	if path == "" {
		return m, m.setNotice(editor.Errorf("Enter the path of a sketch image"))
	}

	url := strings.TrimSpace(m.Upload.URL.Value())
	if m.client == nil {
		m.client = ingest.NewClient(url)
	} else if url != "" {
		m.client.BaseURL = strings.TrimRight(url, "/")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.Upload.seq++
	m.Upload.cancel = cancel
	m.Upload.Describing = true

	return m, tea.Batch(m.Upload.Spinner.Tick, describeCmd(ctx, m.client, m.Upload.seq, path))
}

func describeCmd(ctx context.Context, client *ingest.Client, seq int, path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := client.DescribeFile(ctx, path)
		return describeDoneMsg{seq: seq, path: path, doc: doc, err: err}
	}
}

// handleDescribed applies a describer result. Results of cancelled or
// superseded uploads are dropped. On failure the form stays open for a
// retry and the document is kept.
func (m AppModel) handleDescribed(msg describeDoneMsg) (tea.Model, tea.Cmd) {
	if !m.Upload.Describing || msg.seq != m.Upload.seq {
		return m, nil
	}
	m.Upload.stop()

	name := "upload " + filepath.Base(msg.path)
	if msg.err != nil {
		n := m.session.IngestFailed(name, msg.err)
		n.Text = fmt.Sprintf("%s failed: %s", name, ingest.ShortMessage(msg.err))
		return m, m.setNotice(n)
	}

	m.session.Ingest(name, msg.doc)
	m.inspect.reset()
	m.refresh()
	m.Upload.Path.Blur()
	m.CurrentScreen = ScreenCanvas
	return m, m.setNotice(editor.Infof("Described %s: %d elements",
		filepath.Base(msg.path), len(m.session.Document().Elements())))
}
