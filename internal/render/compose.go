package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/sketchui/internal/layout"
	"github.com/muurk/sketchui/internal/screen"
	"github.com/muurk/sketchui/internal/theme"
)

// DefaultWidth is the canvas width used when none is given.
const DefaultWidth = 80

// Options parameterize Compose.
type Options struct {
	Width    int
	Theme    theme.Theme
	Selected string // selected element id, empty for none
	Mode     Mode
}

// Region is the cell area an element occupies on the canvas.
type Region struct {
	ElementID string
	X, Y      int
	W, H      int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Canvas is a composed screen.
type Canvas struct {
	View    string
	Width   int
	Height  int
	Regions []Region
	Nodes   map[string]Node
}

// HitTest returns the id of the element under cell (x, y).
func (c Canvas) HitTest(x, y int) (string, bool) {
	for _, r := range c.Regions {
		if r.Contains(x, y) {
			return r.ElementID, true
		}
	}
	return "", false
}

// Region returns the region of an element.
func (c Canvas) Region(id string) (Region, bool) {
	for _, r := range c.Regions {
		if r.ElementID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Compose renders doc onto a canvas. The first navbar is hoisted into a
// full-width bar at the top, the screen title is centered below it, and each
// section renders its title followed by its elements on the layout grid. The
// navbar's section keeps its other elements.
func Compose(doc *screen.Screen, opts Options) Canvas {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	th := opts.Theme

	c := &composer{
		width: width,
		opts:  opts,
		nodes: make(map[string]Node),
	}

	nav, hasNav := firstNavbar(doc)
	if hasNav {
		c.addNode(nav, 0, width)
	}

	title := th.Style(theme.SlotBase).Bold(true).Render(doc.DisplayName())
	c.add(lipgloss.PlaceHorizontal(width, lipgloss.Center, title))

	cols := 1
	if doc != nil {
		cols = layout.Fit(width, layout.Resolve(doc.Layout))
	}
	colWidth := layout.ColumnWidth(width, cols)

	empty := true
	hoisted := !hasNav
	for _, section := range sectionsOf(doc) {
		elements := make([]screen.Element, 0, len(section.Elements))
		for _, el := range section.Elements {
			if !hoisted && el.Kind == screen.KindNavbar {
				hoisted = true
				continue
			}
			elements = append(elements, el)
		}
		if section.Title == "" && len(elements) == 0 {
			continue
		}

		c.add("")
		if section.Title != "" {
			c.add(th.Style(theme.SlotMuted).Bold(true).Render(section.Title))
		}
		for _, row := range layout.Arrange(len(elements), cols) {
			c.addRow(elements, row, cols, colWidth)
			empty = false
		}
	}
	if empty && !hasNav {
		c.add("")
		c.add(lipgloss.PlaceHorizontal(width, lipgloss.Center, th.Style(theme.SlotMuted).Italic(true).Render("No elements")))
	}

	view := strings.Join(c.blocks, "\n")
	return Canvas{
		View:    view,
		Width:   width,
		Height:  c.y,
		Regions: c.regions,
		Nodes:   c.nodes,
	}
}

// composer accumulates canvas blocks top to bottom.
type composer struct {
	width   int
	opts    Options
	blocks  []string
	regions []Region
	nodes   map[string]Node
	y       int
}

func (c *composer) add(block string) {
	c.blocks = append(c.blocks, block)
	c.y += lipgloss.Height(block)
}

func (c *composer) render(el screen.Element, width int) Node {
	n := RenderWidth(el, c.opts.Theme, el.ID != "" && el.ID == c.opts.Selected, c.opts.Mode, width)
	c.nodes[el.ID] = n
	return n
}

func (c *composer) addNode(el screen.Element, x, width int) {
	n := c.render(el, width)
	c.regions = append(c.regions, Region{
		ElementID: el.ID,
		X:         x,
		Y:         c.y,
		W:         lipgloss.Width(n.View),
		H:         lipgloss.Height(n.View),
	})
	c.add(n.View)
}

func (c *composer) addRow(elements []screen.Element, row []int, cols, colWidth int) {
	cells := make([]string, 0, 2*len(row))
	gap := strings.Repeat(" ", layout.Gutter)
	for ci, idx := range row {
		el := elements[idx]
		n := c.render(el, colWidth)
		c.regions = append(c.regions, Region{
			ElementID: el.ID,
			X:         layout.ColumnOffset(c.width, cols, ci),
			Y:         c.y,
			W:         lipgloss.Width(n.View),
			H:         lipgloss.Height(n.View),
		})
		if ci > 0 {
			cells = append(cells, gap)
		}
		cells = append(cells, n.View)
	}
	c.add(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// firstNavbar returns the first navbar element in render order.
func firstNavbar(doc *screen.Screen) (screen.Element, bool) {
	for _, el := range doc.Elements() {
		if el.Kind == screen.KindNavbar {
			return el, true
		}
	}
	return screen.Element{}, false
}

func sectionsOf(doc *screen.Screen) []screen.Section {
	if doc == nil {
		return nil
	}
	return doc.Sections
}
