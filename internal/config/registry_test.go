package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/sketchui/internal/theme"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is Linux only")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(tmp, "sketchui"); configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != CurrentVersion {
		t.Errorf("NewRegistry().Version = %v, want %v", reg.Version, CurrentVersion)
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.Theme != theme.DefaultTheme {
		t.Errorf("Theme = %q, want %q", reg.Preferences.Theme, theme.DefaultTheme)
	}
	if reg.Preferences.DescriberTimeoutDuration() != 90*time.Second {
		t.Errorf("DescriberTimeoutDuration() = %v, want 90s", reg.Preferences.DescriberTimeoutDuration())
	}
	if reg.Preferences.PreviewAddr != "" {
		t.Error("preview should be disabled by default")
	}
	if reg.Preferences.PreviewAddrOrDefault() == "" {
		t.Error("PreviewAddrOrDefault() should never be empty")
	}
}

func TestParse_FillsDefaults(t *testing.T) {
	reg, err := Parse([]byte(`
preferences:
  theme: dark
  advertise: true
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if reg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", reg.Version, CurrentVersion)
	}
	p := reg.Preferences
	if p.Theme != "dark" || !p.Advertise {
		t.Errorf("explicit values lost: %+v", p)
	}
	d := DefaultPreferences()
	if p.DescriberURL != d.DescriberURL || p.CanvasWidth != d.CanvasWidth || p.DiscoverTimeout != d.DiscoverTimeout {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "preferences: [\n"},
		{"future version", "version: 2\n"},
		{"wrong type", "preferences:\n  canvas_width: wide\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.data)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	reg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Preferences.Theme != theme.DefaultTheme {
		t.Errorf("missing file should give defaults, got %+v", reg.Preferences)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.SetTheme("contrast")
	reg.Preferences.PreviewAddr = "127.0.0.1:9000"
	reg.Themes = []theme.Theme{{Name: "mine", Extends: "dark", Selection: "#FF00FF"}}

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# sketchui configuration file") {
		t.Errorf("missing header comment:\n%s", data)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Preferences.Theme != "contrast" || loaded.Preferences.PreviewAddr != "127.0.0.1:9000" {
		t.Errorf("loaded preferences = %+v", loaded.Preferences)
	}
	if len(loaded.Themes) != 1 || loaded.Themes[0].Name != "mine" || loaded.Themes[0].Extends != "dark" {
		t.Errorf("loaded themes = %+v", loaded.Themes)
	}
}

func TestThemeRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Themes = []theme.Theme{
		{Name: "mine", Extends: "dark", Selection: "#FF00FF"},
		{Name: "light", Foreground: "#111111", Background: "#EEEEEE"},
	}

	themes, err := reg.ThemeRegistry()
	if err != nil {
		t.Fatalf("ThemeRegistry() error = %v", err)
	}

	mine, ok := themes.Get("mine")
	if !ok {
		t.Fatal("user theme mine missing")
	}
	dark := themes.MustGet("dark")
	if mine.Selection != "#FF00FF" || mine.Foreground != dark.Foreground {
		t.Errorf("mine = %+v, want dark with a new selection color", mine)
	}
	if got := themes.MustGet("light").Foreground; got != "#111111" {
		t.Errorf("light foreground = %q, user theme should replace the built-in", got)
	}
}

func TestThemeRegistry_InvalidTheme(t *testing.T) {
	reg := NewRegistry()
	reg.Themes = []theme.Theme{
		{Name: "ok", Extends: "dark"},
		{Name: "broken", Extends: "nope"},
	}

	themes, err := reg.ThemeRegistry()
	if err == nil || !strings.Contains(err.Error(), "#2") {
		t.Fatalf("ThemeRegistry() error = %v, want one naming theme #2", err)
	}
	if _, ok := themes.Get("ok"); !ok {
		t.Error("themes before the invalid one should still be registered")
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOCALAPPDATA", t.TempDir())

	path, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if _, err := CreateDefaultConfig(false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("CreateDefaultConfig() error = %v, want ErrConfigExists", err)
	}
	if _, err := CreateDefaultConfig(true); err != nil {
		t.Errorf("CreateDefaultConfig(force) error = %v", err)
	}

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if _, err := reg.ThemeRegistry(); err != nil {
		t.Errorf("example theme should be valid: %v", err)
	}
}

func BenchmarkParse(b *testing.B) {
	data, _ := NewRegistry().Marshal("bench")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(data)
	}
}
