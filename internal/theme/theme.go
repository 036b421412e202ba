// Package theme holds the registry of named canvas themes.
//
// A theme is a fixed record of style tokens. Themes are data: the built-in
// set is decoded from an embedded YAML file and users can add or override
// themes from their config file. The renderer asks a theme for a slot and
// gets back a lipgloss style; themes never affect layout or the document.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Font family tokens. A terminal has one font, so families map to text
// attributes.
const (
	FontSans  = "sans"
	FontSerif = "serif"
	FontMono  = "mono"
)

// Slot names a token position in a theme.
type Slot string

const (
	SlotBase      Slot = "base"      // background + foreground
	SlotMuted     Slot = "muted"     // secondary text
	SlotPrimary   Slot = "primary"   // primary actions
	SlotSecondary Slot = "secondary" // containers, secondary actions
	SlotInput     Slot = "input"     // input fields
	SlotNavbar    Slot = "navbar"    // navigation bar
	SlotSelection Slot = "selection" // selected element frame
)

// Token is one style token. A nil attribute is unset and inherits from the
// extended theme.
type Token struct {
	Foreground string `yaml:"fg,omitempty" json:"fg,omitempty"`
	Background string `yaml:"bg,omitempty" json:"bg,omitempty"`
	Border     string `yaml:"border,omitempty" json:"border,omitempty"`
	Bold       *bool  `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic     *bool  `yaml:"italic,omitempty" json:"italic,omitempty"`
	Underline  *bool  `yaml:"underline,omitempty" json:"underline,omitempty"`
}

// Flag returns a pointer to v for the Token attributes.
func Flag(v bool) *bool {
	return &v
}

func isSet(v *bool) bool {
	return v != nil && *v
}

// Theme is a named bundle of tokens.
type Theme struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Extends     string `yaml:"extends,omitempty" json:"extends,omitempty"`

	Background string `yaml:"background,omitempty" json:"background,omitempty"`
	Foreground string `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	Muted      string `yaml:"muted,omitempty" json:"muted,omitempty"`
	Selection  string `yaml:"selection,omitempty" json:"selection,omitempty"`
	Font       string `yaml:"font,omitempty" json:"font,omitempty"`

	Primary   Token `yaml:"primary,omitempty" json:"primary"`
	Secondary Token `yaml:"secondary,omitempty" json:"secondary"`
	Input     Token `yaml:"input,omitempty" json:"input"`
	Navbar    Token `yaml:"navbar,omitempty" json:"navbar"`
}

// Token returns the token for a slot.
func (t Theme) Token(slot Slot) Token {
	switch slot {
	case SlotMuted:
		return Token{Foreground: t.Muted, Background: t.Background}
	case SlotPrimary:
		return t.Primary
	case SlotSecondary:
		return t.Secondary
	case SlotInput:
		return t.Input
	case SlotNavbar:
		return t.Navbar
	case SlotSelection:
		return Token{Foreground: t.Selection, Border: t.Selection, Bold: Flag(true)}
	default:
		return Token{Foreground: t.Foreground, Background: t.Background}
	}
}

// Style returns a lipgloss style for a slot, with the font token applied.
func (t Theme) Style(slot Slot) lipgloss.Style {
	tok := t.Token(slot)
	s := lipgloss.NewStyle()
	if tok.Foreground != "" {
		s = s.Foreground(lipgloss.Color(tok.Foreground))
	}
	if tok.Background != "" {
		s = s.Background(lipgloss.Color(tok.Background))
	}
	if tok.Border != "" {
		s = s.BorderForeground(lipgloss.Color(tok.Border))
	}
	s = s.Bold(isSet(tok.Bold)).Underline(isSet(tok.Underline))
	if isSet(tok.Italic) || t.Font == FontSerif {
		s = s.Italic(true)
	}
	return s
}

// BorderColor returns the border color of a slot, falling back to the
// foreground color.
func (t Theme) BorderColor(slot Slot) lipgloss.Color {
	tok := t.Token(slot)
	if tok.Border != "" {
		return lipgloss.Color(tok.Border)
	}
	return lipgloss.Color(t.Foreground)
}

// overlay returns base with every non-empty field of t applied on top.
func overlay(base, t Theme) Theme {
	out := base
	out.Name = t.Name
	out.Extends = t.Extends
	out.Description = pick(t.Description, base.Description)
	out.Background = pick(t.Background, base.Background)
	out.Foreground = pick(t.Foreground, base.Foreground)
	out.Muted = pick(t.Muted, base.Muted)
	out.Selection = pick(t.Selection, base.Selection)
	out.Font = pick(t.Font, base.Font)
	out.Primary = overlayToken(base.Primary, t.Primary)
	out.Secondary = overlayToken(base.Secondary, t.Secondary)
	out.Input = overlayToken(base.Input, t.Input)
	out.Navbar = overlayToken(base.Navbar, t.Navbar)
	return out
}

func overlayToken(base, t Token) Token {
	if t == (Token{}) {
		return base
	}
	return Token{
		Foreground: pick(t.Foreground, base.Foreground),
		Background: pick(t.Background, base.Background),
		Border:     pick(t.Border, base.Border),
		Bold:       pickFlag(t.Bold, base.Bold),
		Italic:     pickFlag(t.Italic, base.Italic),
		Underline:  pickFlag(t.Underline, base.Underline),
	}
}

func pickFlag(v, fallback *bool) *bool {
	if v != nil {
		return v
	}
	return fallback
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
