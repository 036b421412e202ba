package config

import (
	"fmt"
	"time"

	"github.com/muurk/sketchui/internal/discovery"
	"github.com/muurk/sketchui/internal/ingest"
	"github.com/muurk/sketchui/internal/preview"
	"github.com/muurk/sketchui/internal/render"
	"github.com/muurk/sketchui/internal/theme"
)

// CurrentVersion is the configuration file format version.
const CurrentVersion = 1

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int           `yaml:"version"`
	Preferences *Preferences  `yaml:"preferences,omitempty"`
	Themes      []theme.Theme `yaml:"themes,omitempty"` // User themes, merged over the built-ins
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Theme            string `yaml:"theme"`                  // Theme used when none is given on the command line
	DescriberURL     string `yaml:"describer_url"`          // Base URL of the image describer service
	DescriberTimeout int    `yaml:"describer_timeout"`      // Describe request timeout in seconds
	DiscoverTimeout  int    `yaml:"discover_timeout"`       // mDNS browse timeout in seconds
	PreviewAddr      string `yaml:"preview_addr,omitempty"` // Listen address for the live preview, empty disables it
	Advertise        bool   `yaml:"advertise"`              // Announce the preview server over mDNS
	CanvasWidth      int    `yaml:"canvas_width"`           // Width used by one-shot renders when stdout is not a terminal
	LogLevel         string `yaml:"log_level,omitempty"`    // debug, info, warn or error; empty disables logging
	LogFile          string `yaml:"log_file,omitempty"`     // Log destination; stderr when empty
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Preferences: DefaultPreferences(),
	}
}

// DefaultPreferences returns the preferences used when the file sets none.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Theme:            theme.DefaultTheme,
		DescriberURL:     ingest.DefaultBaseURL,
		DescriberTimeout: int(ingest.DefaultTimeout / time.Second),
		DiscoverTimeout:  int(discovery.DefaultScanTimeout / time.Second),
		PreviewAddr:      "",
		Advertise:        false,
		CanvasWidth:      render.DefaultWidth,
	}
}

// applyDefaults fills zero values. Booleans and the optional strings are left
// as written.
func (p *Preferences) applyDefaults() {
	d := DefaultPreferences()
	if p.Theme == "" {
		p.Theme = d.Theme
	}
	if p.DescriberURL == "" {
		p.DescriberURL = d.DescriberURL
	}
	if p.DescriberTimeout <= 0 {
		p.DescriberTimeout = d.DescriberTimeout
	}
	if p.DiscoverTimeout <= 0 {
		p.DiscoverTimeout = d.DiscoverTimeout
	}
	if p.CanvasWidth <= 0 {
		p.CanvasWidth = d.CanvasWidth
	}
}

// DescriberTimeoutDuration returns DescriberTimeout as a duration.
func (p *Preferences) DescriberTimeoutDuration() time.Duration {
	return time.Duration(p.DescriberTimeout) * time.Second
}

// DiscoverTimeoutDuration returns DiscoverTimeout as a duration.
func (p *Preferences) DiscoverTimeoutDuration() time.Duration {
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// PreviewAddrOrDefault returns PreviewAddr, or the preview package default
// when it is empty.
func (p *Preferences) PreviewAddrOrDefault() string {
	if p.PreviewAddr == "" {
		return preview.DefaultAddr
	}
	return p.PreviewAddr
}

// ThemeRegistry returns the built-in themes with the user themes merged in, in
// file order. A user theme with a built-in name replaces it. The first invalid
// user theme is reported; the themes before it are still registered.
func (r *Registry) ThemeRegistry() (*theme.Registry, error) {
	themes := theme.NewRegistry()
	for i, t := range r.Themes {
		if err := themes.Add(t); err != nil {
			return themes, fmt.Errorf("invalid theme #%d in config: %w", i+1, err)
		}
	}
	return themes, nil
}

// exampleTheme is written by CreateDefaultConfig to show the theme format.
var exampleTheme = theme.Theme{
	Name:        "solarized",
	Description: "Dark with warm accents",
	Extends:     "dark",
	Selection:   "#B58900",
	Primary:     theme.Token{Foreground: "#FDF6E3", Background: "#268BD2", Bold: theme.Flag(true)},
}

// SetTheme records the preferred theme name.
func (r *Registry) SetTheme(name string) {
	if r.Preferences == nil {
		r.Preferences = DefaultPreferences()
	}
	r.Preferences.Theme = name
}
