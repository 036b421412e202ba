package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/sketchui/internal/screen"
	"github.com/muurk/sketchui/internal/theme"
)

// Defaults for absent optional fields.
const (
	DefaultButtonLabel = "Button"
	DefaultPlaceholder = "…"
	DefaultImageAlt    = "image"
	DefaultImageSize   = screen.SizeMedium
	DefaultBrand       = "App"
	DefaultSelectText  = "Select…"
	placeholderCell    = "—"
)

// DefaultHeaders is the placeholder table header row.
var DefaultHeaders = []string{"Column 1", "Column 2", "Column 3"}

// DefaultNavItems is the placeholder navbar menu.
var DefaultNavItems = []screen.Item{
	{Label: "Home", Variant: screen.VariantPrimary},
	{Label: "About", Variant: screen.VariantSecondary},
}

// genericLabels are filler captions the describer emits in place of a real
// label. Matching is exact.
var genericLabels = map[string]bool{
	"Input Field":  true,
	"Text Input":   true,
	"Text Field":   true,
	"Number Input": true,
	"Button":       true,
	"Dropdown":     true,
	"Select":       true,
}

// IsGenericLabel reports whether label is a filler caption.
func IsGenericLabel(label string) bool {
	return genericLabels[label]
}

// fallbackBorder marks nodes of unrecognized kinds.
var fallbackBorder = lipgloss.Border{
	Top:         "╌",
	Bottom:      "╌",
	Left:        "╎",
	Right:       "╎",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}

// body is what a kind renderer produces before framing.
type body struct {
	label       string
	placeholder string
	slot        theme.Slot
	view        string
}

// renderFunc renders an element into at most width cells. width 0 means
// natural width.
type renderFunc func(el screen.Element, th theme.Theme, width int) body

var dispatch = map[screen.Kind]renderFunc{
	screen.KindHeading:    renderHeading,
	screen.KindSubheading: renderSubheading,
	screen.KindText:       renderText,
	screen.KindInput:      renderInput,
	screen.KindNumber:     renderNumber,
	screen.KindSelect:     renderSelect,
	screen.KindButton:     renderButton,
	screen.KindImage:      renderImage,
	screen.KindTable:      renderTable,
	screen.KindNavbar:     renderNavbar,
}

// interactiveKinds react to clicks in preview mode.
var interactiveKinds = map[screen.Kind]bool{
	screen.KindButton: true,
	screen.KindNavbar: true,
	screen.KindInput:  true,
	screen.KindNumber: true,
	screen.KindSelect: true,
}

// Render renders one element at its natural width.
func Render(el screen.Element, th theme.Theme, selected bool, mode Mode) Node {
	return renderNode(el, th, selected, mode, 0)
}

// RenderWidth renders one element framed to exactly width cells.
func RenderWidth(el screen.Element, th theme.Theme, selected bool, mode Mode, width int) Node {
	return renderNode(el, th, selected, mode, width)
}

func renderNode(el screen.Element, th theme.Theme, selected bool, mode Mode, width int) Node {
	inner := 0
	if width > 0 {
		inner = width - 2
		if inner < 1 {
			inner = 1
		}
	}

	fn, known := dispatch[el.Kind]
	if !known {
		fn = renderFallback
	}
	b := fn(el, th, inner)

	align := AlignFor(el.Position)
	return Node{
		ElementID:   el.ID,
		Kind:        el.Kind,
		Label:       b.label,
		Placeholder: b.placeholder,
		Align:       align,
		Fallback:    !known,
		Interactive: known && mode == ModePreview && interactiveKinds[el.Kind],
		Selected:    selected,
		Slot:        b.slot,
		Token:       th.Token(b.slot),
		View:        frame(b.view, th, selected, align, inner),
	}
}

// frame places view in a cell of inner width and draws the selection border.
// Unselected nodes get a hidden border of the same size.
func frame(view string, th theme.Theme, selected bool, align Align, inner int) string {
	if inner > 0 {
		view = lipgloss.NewStyle().MaxWidth(inner).Render(view)
		view = lipgloss.PlaceHorizontal(inner, align.Position(), view)
	}
	border := lipgloss.HiddenBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(th.BorderColor(theme.SlotSelection)).
		Render(view)
}

// block renders free text, wrapped and aligned when a width is given.
func block(style lipgloss.Style, el screen.Element, text string, width int) string {
	if width > 0 {
		style = style.Width(width).Align(AlignFor(el.Position).Position())
	}
	return style.Render(text)
}

func renderHeading(el screen.Element, th theme.Theme, width int) body {
	style := th.Style(theme.SlotBase).Bold(true).Underline(true)
	return body{label: el.Label, slot: theme.SlotBase, view: block(style, el, strings.ToUpper(el.Label), width)}
}

func renderSubheading(el screen.Element, th theme.Theme, width int) body {
	style := th.Style(theme.SlotBase).Bold(true)
	return body{label: el.Label, slot: theme.SlotBase, view: block(style, el, el.Label, width)}
}

func renderText(el screen.Element, th theme.Theme, width int) body {
	return body{label: el.Label, slot: theme.SlotBase, view: block(th.Style(theme.SlotBase), el, el.Label, width)}
}

// caption returns the label shown above a form control.
func caption(el screen.Element) string {
	if IsGenericLabel(el.Label) {
		return ""
	}
	return el.Label
}

// field draws a bordered one-line form field.
func field(th theme.Theme, text string, muted bool, width, natural int) string {
	style := th.Style(theme.SlotInput).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderColor(theme.SlotInput)).
		Padding(0, 1)
	if muted {
		style = style.Foreground(lipgloss.Color(th.Muted))
	}
	w := natural
	if width > 0 && width-2 < w {
		w = width - 2
	}
	if w < 3 {
		w = 3
	}
	return style.Width(w).Render(text)
}

func formControl(el screen.Element, th theme.Theme, width int, text, placeholder string) body {
	label := caption(el)
	muted := text == ""
	if muted {
		text = placeholder
	}
	view := field(th, text, muted, width, 24)
	if label != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, th.Style(theme.SlotMuted).Render(label), view)
	}
	return body{label: label, placeholder: placeholder, slot: theme.SlotInput, view: view}
}

func renderInput(el screen.Element, th theme.Theme, width int) body {
	placeholder := el.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return formControl(el, th, width, el.Value.String(), placeholder)
}

func renderNumber(el screen.Element, th theme.Theme, width int) body {
	placeholder := el.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	b := formControl(el, th, shrink(width, 2), el.Value.String(), placeholder)
	b.view = lipgloss.JoinHorizontal(lipgloss.Bottom, b.view, suffix(th, " ±"))
	return b
}

// suffix renders a marker that lines up with the text row of a field when
// joined at the bottom.
func suffix(th theme.Theme, marker string) string {
	return th.Style(theme.SlotMuted).Render(marker) + "\n"
}

// shrink reserves n cells of width for a suffix. Natural width stays natural.
func shrink(width, n int) int {
	if width == 0 {
		return 0
	}
	if width-n < 1 {
		return 1
	}
	return width - n
}

func renderSelect(el screen.Element, th theme.Theme, width int) body {
	placeholder := el.Placeholder
	if placeholder == "" {
		placeholder = DefaultSelectText
	}
	text := el.Value.String()
	if text == "" && len(el.Options) > 0 {
		text = el.Options[0]
	}
	b := formControl(el, th, shrink(width, 2), text, placeholder)
	b.view = lipgloss.JoinHorizontal(lipgloss.Bottom, b.view, suffix(th, " ▾"))
	if n := len(el.Options); n > 1 {
		more := th.Style(theme.SlotMuted).Italic(true).Render(fmt.Sprintf("%d options", n))
		b.view = lipgloss.JoinVertical(lipgloss.Left, b.view, more)
	}
	return b
}

func renderButton(el screen.Element, th theme.Theme, width int) body {
	label := el.Label
	if label == "" {
		label = DefaultButtonLabel
	}
	view := th.Style(theme.SlotPrimary).Padding(0, 2).Render(label)
	return body{label: label, slot: theme.SlotPrimary, view: view}
}

// imageBox gives the content size of an image placeholder per size value.
var imageBox = map[string][2]int{
	screen.SizeSmall:  {12, 1},
	screen.SizeMedium: {20, 3},
	screen.SizeLarge:  {28, 5},
}

func renderImage(el screen.Element, th theme.Theme, width int) body {
	alt := el.Alt
	if alt == "" {
		alt = DefaultImageAlt
	}
	box, ok := imageBox[el.Size]
	if !ok {
		box = imageBox[DefaultImageSize]
	}
	w := box[0]
	if width > 0 && width-2 < w {
		w = width - 2
	}
	if w < 1 {
		w = 1
	}
	view := th.Style(theme.SlotSecondary).
		Border(lipgloss.NormalBorder()).
		BorderForeground(th.BorderColor(theme.SlotSecondary)).
		Width(w).
		Height(box[1]).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render("▨ " + alt)
	return body{label: alt, slot: theme.SlotSecondary, view: view}
}

func renderTable(el screen.Element, th theme.Theme, width int) body {
	headers := el.Headers
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	rows := el.Rows
	if len(rows) == 0 {
		row := make([]string, len(headers))
		for i := range row {
			row[i] = placeholderCell
		}
		rows = [][]string{row}
	}

	header := th.Style(theme.SlotNavbar).Bold(true).Padding(0, 1)
	cell := th.Style(theme.SlotBase).Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(th.BorderColor(theme.SlotSecondary))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	if width > 0 {
		t = t.Width(width)
	}

	view := t.Render()
	if el.Label != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, th.Style(theme.SlotMuted).Render(el.Label), view)
	}
	return body{label: el.Label, slot: theme.SlotSecondary, view: view}
}

func renderNavbar(el screen.Element, th theme.Theme, width int) body {
	brand := el.Brand
	if brand == "" {
		brand = DefaultBrand
	}
	items := el.Items
	if len(items) == 0 {
		items = DefaultNavItems
	}

	bar := th.Style(theme.SlotNavbar)
	parts := []string{bar.Bold(true).Padding(0, 1).Render(brand)}
	for _, item := range items {
		slot := theme.SlotSecondary
		if item.Variant == screen.VariantPrimary {
			slot = theme.SlotPrimary
		}
		parts = append(parts, th.Style(slot).Padding(0, 1).Render(item.Label))
	}
	view := strings.Join(parts, bar.Render(" "))

	style := bar.Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(th.BorderColor(theme.SlotNavbar))
	if width > 0 {
		style = style.Width(width)
	}
	return body{label: brand, slot: theme.SlotNavbar, view: style.Render(view)}
}

// renderFallback shows the raw kind and label inside a dashed border.
func renderFallback(el screen.Element, th theme.Theme, width int) body {
	kind := string(el.Kind)
	if kind == "" {
		kind = "element"
	}
	text := "? " + kind
	if el.Label != "" {
		text += ": " + el.Label
	}
	style := th.Style(theme.SlotMuted).
		Italic(true).
		Border(fallbackBorder).
		BorderForeground(lipgloss.Color(th.Muted)).
		Padding(0, 1)
	if width > 4 {
		style = style.Width(width - 2)
	}
	return body{label: el.Label, slot: theme.SlotMuted, view: style.Render(text)}
}
