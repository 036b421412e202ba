package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/sketchui/internal/discovery"
	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/ingest"
	"github.com/muurk/sketchui/internal/render"
	"github.com/muurk/sketchui/internal/screen"
)

// Screen represents the active screen
type Screen string

const (
	ScreenCanvas   Screen = "canvas"
	ScreenUpload   Screen = "upload"
	ScreenDiscover Screen = "discover"
)

// Messages for async operations
type (
	describeDoneMsg struct {
		seq  int
		path string
		doc  *screen.Screen
		err  error
	}
	fileLoadedMsg    ingest.Reload
	reloadMsg        ingest.Reload
	noticeExpiredMsg struct{ id int }
	scanCompleteMsg  struct {
		seq      int
		services []*discovery.Service
		err      error
	}
)

// Options configures an AppModel.
type Options struct {
	Session *editor.Session
	Client  *ingest.Client     // Describer client; nil disables upload
	Scanner *discovery.Scanner // mDNS scanner; nil uses the default
	Watcher *ingest.Watcher    // Pushes reloads of Path when set
	Path    string             // Description file reloaded by "r"
	Preview string             // Preview server URL shown in the header
}

// AppModel is the top-level model. It routes input to the active screen and
// owns everything that is not the editing state itself, which lives in the
// session.
type AppModel struct {
	CurrentScreen Screen

	session *editor.Session
	client  *ingest.Client
	scanner *discovery.Scanner
	watcher *ingest.Watcher
	path    string
	preview string

	// Canvas screen
	canvas   render.Canvas
	viewport viewport.Model
	inspect  inspector

	Upload   UploadModel
	Discover DiscoverModel

	notice   editor.Notice
	noticeID int

	// UI state
	Width  int
	Height int
	ready  bool

	Help       help.Model
	CanvasKeys canvasKeyMap
	EditKeys   editKeyMap
}

// NewAppModel creates the application model on the canvas screen.
func NewAppModel(opts Options) AppModel {
	scanner := opts.Scanner
	if scanner == nil {
		scanner = discovery.NewScanner()
	}
	return AppModel{
		CurrentScreen: ScreenCanvas,
		session:       opts.Session,
		client:        opts.Client,
		scanner:       scanner,
		watcher:       opts.Watcher,
		path:          opts.Path,
		preview:       opts.Preview,
		inspect:       newInspector(),
		Upload:        NewUploadModel(opts.Client),
		Discover:      NewDiscoverModel(),
		Help:          help.New(),
		CanvasKeys:    newCanvasKeyMap(),
		EditKeys:      newEditKeyMap(),
	}
}

// Session returns the editing session.
func (m AppModel) Session() *editor.Session {
	return m.session
}

// Notice returns the notice on screen, if any.
func (m AppModel) Notice() editor.Notice {
	return m.notice
}

// Init starts listening for file reloads.
func (m AppModel) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForReload(m.watcher)
	}
	return nil
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ready = true
		m.Help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = editor.Notice{}
		}
		return m, nil

	case spinner.TickMsg:
		return m.tickSpinners(msg)

	case scanCompleteMsg:
		return m.handleScanned(msg)

	case describeDoneMsg:
		return m.handleDescribed(msg)

	case fileLoadedMsg:
		return m.ingestReload("reload", ingest.Reload(msg))

	case reloadMsg:
		next, cmd := m.ingestReload("watch", ingest.Reload(msg))
		return next, tea.Batch(cmd, waitForReload(m.watcher))
	}

	switch m.CurrentScreen {
	case ScreenUpload:
		return m.updateUpload(msg)
	case ScreenDiscover:
		return m.updateDiscover(msg)
	default:
		return m.updateCanvas(msg)
	}
}

// View renders the current screen
func (m AppModel) View() string {
	if !m.ready {
		return "Loading…"
	}

	var content string
	var helpText string
	switch m.CurrentScreen {
	case ScreenUpload:
		content = m.Upload.View(m.Width)
		helpText = m.Help.View(m.Upload.Keys)
	case ScreenDiscover:
		content = m.Discover.View()
		helpText = m.Help.View(m.Discover.Keys)
	default:
		content = m.canvasView()
		if m.inspect.editing {
			helpText = m.Help.View(m.EditKeys)
		} else {
			helpText = m.Help.View(m.CanvasKeys)
		}
	}

	footer := helpText
	if m.notice.Text != "" {
		if m.notice.IsError() {
			footer = ErrorNoticeStyle.Render("✗ " + m.notice.Text)
		} else {
			footer = InfoNoticeStyle.Render("✓ " + m.notice.Text)
		}
	}

	return RenderApplicationContainer(m.headerText(), content, footer, m.Width, m.Height)
}

func (m AppModel) headerText() string {
	doc := m.session.Document()
	left := doc.DisplayName()
	if m.path != "" {
		left += " · " + filepath.Base(m.path)
	}
	right := fmt.Sprintf("theme %s · %s", m.session.Theme().Name, m.session.Mode())
	if m.preview != "" {
		right += " · " + m.preview
	}
	return BuildHeaderContent(left, right, m.Width)
}

// tickSpinners advances whichever spinners are running. A spinner that is
// not advanced stops ticking.
func (m AppModel) tickSpinners(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.Upload.Describing {
		var cmd tea.Cmd
		m.Upload.Spinner, cmd = m.Upload.Spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.Discover.Scanning {
		var cmd tea.Cmd
		m.Discover.Spinner, cmd = m.Discover.Spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// setNotice shows n and schedules its expiry.
func (m *AppModel) setNotice(n editor.Notice) tea.Cmd {
	m.noticeID++
	m.notice = n
	id := m.noticeID
	return tea.Tick(editor.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// ingestReload applies a file load, keeping the document on failure.
func (m AppModel) ingestReload(source string, r ingest.Reload) (tea.Model, tea.Cmd) {
	name := source + " " + filepath.Base(r.Path)
	if r.Err != nil {
		cmd := m.setNotice(m.session.IngestFailed(name, r.Err))
		return m, cmd
	}
	m.session.Ingest(name, r.Screen)
	m.inspect.reset()
	m.refresh()
	cmd := m.setNotice(editor.Infof("Loaded %s: %d elements", filepath.Base(r.Path), len(m.session.Document().Elements())))
	return m, cmd
}

// waitForReload blocks on the watcher's next result. A closed watcher ends
// the chain.
func waitForReload(w *ingest.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-w.Reloads()
		if !ok {
			return nil
		}
		return reloadMsg(r)
	}
}

// loadFileCmd reads path off the event loop.
func loadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := ingest.LoadFile(path)
		return fileLoadedMsg(ingest.Reload{Path: path, Screen: doc, Err: err})
	}
}

// Run starts the editor full screen with mouse support and blocks until the
// operator quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor error: %w", err)
	}
	return nil
}
