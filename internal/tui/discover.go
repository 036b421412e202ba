package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/sketchui/internal/discovery"
	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/ingest"
)

// serviceItem adapts a discovered describer to the list.
type serviceItem struct {
	svc *discovery.Service
}

func (i serviceItem) Title() string { return i.svc.Instance }

func (i serviceItem) Description() string {
	desc := i.svc.BaseURL()
	if v := i.svc.GetMetadata("version"); v != "" {
		desc += " · v" + v
	}
	return desc
}

func (i serviceItem) FilterValue() string { return i.svc.Instance + " " + i.svc.Host }

// DiscoverModel lists describers found on the local network.
type DiscoverModel struct {
	List        list.Model
	Spinner     spinner.Model
	ProgressBar progress.Model
	Keys        discoverKeyMap

	Scanning bool
	Err      error
	started  time.Time
	timeout  time.Duration
	seq      int
}

// NewDiscoverModel creates an empty discover screen.
func NewDiscoverModel() DiscoverModel {
	l := list.New(nil, list.NewDefaultDelegate(), 60, 10)
	l.Title = "Describers"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return DiscoverModel{
		List:        l,
		Spinner:     s,
		ProgressBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		Keys:        newDiscoverKeyMap(),
	}
}

// SetSize fits the list to the content area.
func (d *DiscoverModel) SetSize(width, height int) {
	d.List.SetSize(width-4, height-4)
}

// Start begins a scan, superseding any scan in flight.
func (d *DiscoverModel) Start(scanner *discovery.Scanner) tea.Cmd {
	d.seq++
	d.Scanning = true
	d.Err = nil
	d.started = time.Now()
	d.timeout = scanner.Timeout
	d.List.SetItems(nil)
	return tea.Batch(d.Spinner.Tick, scanCmd(scanner, d.seq))
}

// Selected returns the highlighted service.
func (d DiscoverModel) Selected() (*discovery.Service, bool) {
	item, ok := d.List.SelectedItem().(serviceItem)
	if !ok {
		return nil, false
	}
	return item.svc, true
}

// View renders the scan progress or the services found.
func (d DiscoverModel) View() string {
	var b strings.Builder

	if d.Scanning {
		b.WriteString(RenderTitle("FINDING DESCRIBERS"))
		b.WriteString("\n")
		b.WriteString(d.Spinner.View() + " Browsing " + discovery.DescriberService + "…\n\n")
		b.WriteString(d.ProgressBar.ViewAs(d.elapsed()))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	switch {
	case d.Err != nil:
		b.WriteString(RenderTitle("DISCOVERY FAILED"))
		b.WriteString("\n")
		b.WriteString(ErrorNoticeStyle.Render(d.Err.Error()))
	case len(d.List.Items()) == 0:
		b.WriteString(RenderTitle("NO DESCRIBERS FOUND"))
		b.WriteString("\n")
		b.WriteString(RenderSubtitle("Is a describer running and advertising " + discovery.DescriberService + "?"))
	default:
		b.WriteString(d.List.View())
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// elapsed is the scan's progress through the timeout, in [0, 1].
func (d DiscoverModel) elapsed() float64 {
	if d.timeout <= 0 {
		return 0
	}
	p := float64(time.Since(d.started)) / float64(d.timeout)
	if p > 1 {
		return 1
	}
	return p
}

func scanCmd(scanner *discovery.Scanner, seq int) tea.Cmd {
	return func() tea.Msg {
		services, err := scanner.Browse(context.Background(), discovery.DescriberService)
		return scanCompleteMsg{seq: seq, services: services, err: err}
	}
}

// handleScanned fills the list. Results of superseded scans are dropped.
func (m AppModel) handleScanned(msg scanCompleteMsg) (tea.Model, tea.Cmd) {
	if !m.Discover.Scanning || msg.seq != m.Discover.seq {
		return m, nil
	}
	m.Discover.Scanning = false
	m.Discover.Err = msg.err

	items := make([]list.Item, 0, len(msg.services))
	for _, svc := range msg.services {
		items = append(items, serviceItem{svc: svc})
	}
	cmd := m.Discover.List.SetItems(items)
	return m, cmd
}

// updateDiscover handles input on the discover screen
func (m AppModel) updateDiscover(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	keys := m.Discover.Keys

	switch {
	case key.Matches(keyMsg, keys.Back):
		m.Discover.Scanning = false
		m.CurrentScreen = ScreenUpload
		return m, m.Upload.Focus()

	case m.Discover.Scanning:
		return m, nil

	case key.Matches(keyMsg, keys.Rescan):
		return m, m.Discover.Start(m.scanner)

	case key.Matches(keyMsg, keys.Select):
		svc, ok := m.Discover.Selected()
		if !ok {
			return m, nil
		}
		m.useDescriber(svc)
		m.CurrentScreen = ScreenUpload
		return m, tea.Batch(m.Upload.Focus(), m.setNotice(editor.Infof("Using describer %s at %s", svc.Instance, svc.Addr())))
	}

	var cmd tea.Cmd
	m.Discover.List, cmd = m.Discover.List.Update(keyMsg)
	return m, cmd
}

// useDescriber points uploads at svc.
func (m *AppModel) useDescriber(svc *discovery.Service) {
	url := svc.BaseURL()
	if m.client == nil {
		m.client = ingest.NewClient(url)
	} else {
		m.client.BaseURL = url
	}
	m.Upload.URL.SetValue(url)
}
