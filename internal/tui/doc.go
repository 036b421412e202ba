// Package tui implements the interactive terminal editor for sketchui.
//
// The editor is a Bubble Tea program built around an editor.Session. The
// session owns the document, the selection, the theme and the mode; this
// package turns key presses and mouse clicks into session transitions and
// renders the composed canvas after each one.
//
// # Screens
//
//   - Canvas: the rendered screen in a scrolling viewport with an inspector
//     panel listing the selected element's fields
//   - Upload: sends a sketch image to the describer and loads the result
//   - Discover: finds describers on the local network (mDNS)
//
// All screens share one container (RenderApplicationContainer) with a header
// bar, the content area and a footer that shows either context help or the
// latest notice.
//
// # Framework Components
//
//   - bubbles/viewport: scrolling canvas
//   - bubbles/textinput: inline field editing and the upload form
//   - bubbles/spinner and bubbles/progress: describe and scan progress
//   - bubbles/list: discovered describers
//   - bubbles/help and bubbles/key: context-sensitive key bindings
//   - lipgloss: styling and layout
//
// # Key Bindings
//
//   - Canvas: tab/shift+tab select, click select, enter edit, esc deselect,
//     ↑/↓ choose field, t theme, p preview mode, u upload, r reload, d find
//     describer, q quit
//   - Editing: enter apply, esc cancel
//   - Upload: enter describe, tab switch field, ctrl+f find describer, esc back
//   - Discover: enter use, r rescan, esc back
//
// In preview mode clicks on interactive elements report the action they
// would trigger instead of selecting.
//
// # Usage Example
//
//	session := editor.New(themes)
//	session.Ingest("file", doc)
//	if err := tui.Run(tui.Options{Session: session, Path: path}); err != nil {
//	    log.Fatal(err)
//	}
//
// Async work (describe, scan, file reload) runs in tea.Cmds and reports back
// through messages. Results of cancelled or superseded operations carry a
// stale sequence number and are dropped.
package tui
