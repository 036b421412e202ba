package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const loginJSON = `{"screen_name":"Login","sections":[{"title":"Form","elements":[{"type":"input","label":"Email"},{"type":"button","label":"Sign in"}]}]}`

// execute runs the root command with a throwaway config file.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.json")
	if err := os.WriteFile(path, []byte(loginJSON), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "render", path, "--width", "60", "--list")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, want := range []string{"Login", "Email", "Sign in", "Region", "button"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand_Stdin(t *testing.T) {
	out, err := execute(t, `{"status":"success","ui_description":`+loginJSON+`}`, "render", "-", "--width", "60", "--list=false")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "Sign in") {
		t.Errorf("output =\n%s", out)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "missing.json")}},
		{"unknown theme", []string{"render", "-", "--theme", "neon"}},
		{"unknown mode", []string{"render", "-", "--theme", "light", "--mode", "hover"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, loginJSON, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
	renderTheme, renderMode = "", "edit"
}

func TestThemesCommand(t *testing.T) {
	out, err := execute(t, "", "themes")
	if err != nil {
		t.Fatalf("themes error = %v", err)
	}
	for _, want := range []string{"light", "dark"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketchui", "config.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out.Reset()
	rootCmd.SetArgs([]string{"--config", path, "config", "show"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out.String(), "solarized") {
		t.Errorf("config show =\n%s", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"--config", path, "config", "path"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("config path = %q", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "sketchui ") {
		t.Errorf("version = %q", out)
	}
}
