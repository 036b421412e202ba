package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/render"
	"github.com/muurk/sketchui/internal/screen"
	"github.com/muurk/sketchui/internal/theme"
)

const loginJSON = `{"screen_name":"Login","sections":[{"title":"Form","elements":[
	{"id":"user","type":"input","label":"Username"},
	{"id":"go","type":"button","label":"Sign in"}]}]}`

func newSession(t *testing.T, hub *Hub) *editor.Session {
	t.Helper()
	doc, err := screen.Parse([]byte(loginJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s := editor.New(theme.NewRegistry(), editor.WithObserver(hub.Publish))
	s.Ingest("test", doc)
	return s
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return msg
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(editor.Snapshot{Version: 3, Theme: "dark", Mode: render.ModePreview})
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	if string(msg.Screen) != "null" {
		t.Errorf("Screen = %s, want null", msg.Screen)
	}
	if msg.Mode != "preview" || msg.Theme != "dark" || msg.Version != 3 {
		t.Errorf("NewMessage() = %+v", msg)
	}
}

func TestHandler_BeforeFirstPublish(t *testing.T) {
	srv := httptest.NewServer(NewHub().Handler())
	defer srv.Close()

	for _, path := range []string{"/api/screen", "/api/snapshot"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestHandler_ScreenAndSnapshot(t *testing.T) {
	hub := NewHub()
	s := newSession(t, hub)
	s.Click("go")

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/screen")
	if err != nil {
		t.Fatalf("GET /api/screen error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	doc, err := screen.Parse(body)
	if err != nil {
		t.Fatalf("Parse(/api/screen) error = %v", err)
	}
	if doc.Name != "Login" || len(doc.Elements()) != 2 {
		t.Errorf("/api/screen = %s", body)
	}

	resp, err = http.Get(srv.URL + "/api/snapshot")
	if err != nil {
		t.Fatalf("GET /api/snapshot error = %v", err)
	}
	var msg Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	resp.Body.Close()
	if msg.Selected != "go" || msg.Theme != theme.DefaultTheme || msg.Mode != "edit" {
		t.Errorf("/api/snapshot = %+v", msg)
	}
	if msg.Version != s.Snapshot().Version {
		t.Errorf("Version = %d, want %d", msg.Version, s.Snapshot().Version)
	}
}

func TestHandler_RejectsWrites(t *testing.T) {
	hub := NewHub()
	newSession(t, hub)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/screen", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHandler_Index(t *testing.T) {
	srv := httptest.NewServer(NewHub().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "/ws") {
		t.Error("index page should connect to /ws")
	}

	resp, err = http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("GET /missing error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /missing status = %d, want 404", resp.StatusCode)
	}
}

func TestWebSocket_StreamsSnapshots(t *testing.T) {
	hub := NewHub()
	s := newSession(t, hub)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)

	first := readMessage(t, conn)
	if first.Selected != "" || first.Version != s.Snapshot().Version {
		t.Errorf("initial snapshot = %+v", first)
	}

	if err := s.EditElement("go", screen.FieldLabel, "Log in"); err != nil {
		t.Fatalf("EditElement() error = %v", err)
	}
	next := readMessage(t, conn)
	if next.Version <= first.Version {
		t.Errorf("Version = %d, want > %d", next.Version, first.Version)
	}
	doc, err := screen.Parse(next.Screen)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if el, _ := doc.Find("go"); el.Label != "Log in" {
		t.Errorf("streamed label = %q, want Log in", el.Label)
	}
}

func TestWebSocket_SlowClientGetsLatest(t *testing.T) {
	hub := NewHub()
	s := newSession(t, hub)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	_ = readMessage(t, conn)

	// Publish several transitions without reading in between. The client
	// must end up on the final version without the publisher ever blocking.
	for i := 0; i < 50; i++ {
		s.ToggleMode()
	}
	want := s.Snapshot().Version

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msg := readMessage(t, conn); msg.Version == want {
			return
		}
	}
	t.Fatalf("never received version %d", want)
}

func TestPublish_WithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(editor.Snapshot{Version: uint64(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish() blocked")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}
}

func TestServe_Shutdown(t *testing.T) {
	hub := NewHub()
	newSession(t, hub)

	srv, err := Serve("127.0.0.1:0", hub)
	if err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if srv.Port() == 0 {
		t.Error("Port() = 0")
	}

	url := "ws://" + srv.Addr() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	_ = readMessage(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection should be closed after Shutdown()")
	}
}
