package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "login.json")
	if err := os.WriteFile(good, []byte(describedScreen), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if doc.Name != "Login" {
		t.Errorf("Name = %q", doc.Name)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile() on missing file should fail")
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("not a description"), 0644)
	if _, err := LoadFile(bad); !IsParseError(err) {
		t.Errorf("LoadFile() error = %v, want parse error", err)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screen.json")
	if err := os.WriteFile(path, []byte(describedScreen), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(context.Background(), path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer func() { _ = w.Close() }()

	// Unrelated files in the same directory are ignored.
	_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644)

	updated := `{"screen_name":"Signup","sections":[]}`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-w.Reloads():
		if r.Err != nil {
			t.Fatalf("reload error = %v", r.Err)
		}
		if r.Screen.Name != "Signup" {
			t.Errorf("reloaded Name = %q, want Signup", r.Screen.Name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcher_CloseClosesChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	_ = os.WriteFile(path, []byte(describedScreen), 0644)

	w, err := Watch(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, ok := <-w.Reloads(); ok {
		t.Error("Reloads() still open after Close")
	}
}
