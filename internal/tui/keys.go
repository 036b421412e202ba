package tui

import "github.com/charmbracelet/bubbles/key"

// canvasKeyMap defines key bindings for the canvas screen
type canvasKeyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Edit       key.Binding
	Clear      key.Binding
	Up         key.Binding
	Down       key.Binding
	Theme      key.Binding
	Mode       key.Binding
	Upload     key.Binding
	Reload     key.Binding
	Discover   key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k canvasKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Edit, k.Clear, k.Theme, k.Mode, k.Upload, k.Reload, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k canvasKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Edit, k.Clear},
		{k.Up, k.Down, k.ScrollUp, k.ScrollDown},
		{k.Theme, k.Mode, k.Upload, k.Reload, k.Discover, k.Quit},
	}
}

// editKeyMap defines key bindings while a field is being edited
type editKeyMap struct {
	Save   key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Save, k.Cancel}}
}

// uploadKeyMap defines key bindings for the upload screen
type uploadKeyMap struct {
	Submit   key.Binding
	Switch   key.Binding
	Discover key.Binding
	Cancel   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k uploadKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Switch, k.Discover, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k uploadKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Switch, k.Discover, k.Cancel}}
}

// discoverKeyMap defines key bindings for the describer discovery screen
type discoverKeyMap struct {
	Select key.Binding
	Rescan key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoverKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Rescan, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k discoverKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Select, k.Rescan, k.Back}}
}

func newCanvasKeyMap() canvasKeyMap {
	return canvasKeyMap{
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Edit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "field up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "field down")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Mode:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Upload:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Discover:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "find describer")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func newEditKeyMap() editKeyMap {
	return editKeyMap{
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func newUploadKeyMap() uploadKeyMap {
	return uploadKeyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "describe")),
		Switch:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
		Discover: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "find describer")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func newDiscoverKeyMap() discoverKeyMap {
	return discoverKeyMap{
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use")),
		Rescan: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		Back:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
	}
}
