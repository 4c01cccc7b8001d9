package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestRoutes(t *testing.T) {
	handler, gm := newRouter(newTestConfig(), fixedLoader(boardRecords()))
	t.Cleanup(gm.stop)

	tests := []struct {
		target      string
		code        int
		contentType string
		body        string
	}{
		{"/", http.StatusOK, "text/html", "Start a new board"},
		{"/healthz", http.StatusOK, "text/plain", "Ok"},
		{"/version", http.StatusOK, "text/plain", "triviabox v" + releaseVersion},
		{"/robots.txt", http.StatusOK, "text/plain", "Disallow: /jeopardy/"},
		{"/jeopardy/abc123", http.StatusOK, "text/html", "/assets/jeopardy/app.js"},
		{"/jeopardy/abc123/qr", http.StatusOK, "image/png", ""},
		{"/assets/jeopardy/app.js", http.StatusOK, "text/javascript", "renderBoard"},
		{"/assets/jeopardy/app.css", http.StatusOK, "text/css", "#gameTable"},
		{"/assets/triviabox.css", http.StatusOK, "text/css", "body"},
		{"/assets/missing.css", http.StatusNotFound, "", ""},
		{"/favicons/favicon.svg", http.StatusOK, "image/svg+xml", "<svg"},
		{"/favicons/site.webmanifest", http.StatusOK, "application/manifest+json", "triviabox"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, handler, tt.target)

			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			if tt.contentType != "" && !strings.Contains(w.Header().Get("Content-Type"), tt.contentType) {
				t.Fatalf("expected %s, got %s", tt.contentType, w.Header().Get("Content-Type"))
			}
			if !strings.Contains(w.Body.String(), tt.body) {
				t.Fatalf("body does not contain %q", tt.body)
			}
		})
	}
}

func TestNewGameRedirect(t *testing.T) {
	handler, gm := newRouter(newTestConfig(), fixedLoader(boardRecords()))
	t.Cleanup(gm.stop)

	w := get(t, handler, "/jeopardy")

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}

	loc := w.Header().Get("Location")
	id := strings.TrimPrefix(loc, "/jeopardy/")
	if id == loc || len(id) != 8 {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestGamePageSetsPlayerCookie(t *testing.T) {
	handler, gm := newRouter(newTestConfig(), fixedLoader(boardRecords()))
	t.Cleanup(gm.stop)

	w := get(t, handler, "/jeopardy/abc123")

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == playerCookieName && len(c.Value) == 32 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected player cookie to be set")
	}

	if !strings.Contains(w.Body.String(), "abc123") {
		t.Fatal("game page does not mention its game id")
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler, gm := newRouter(newTestConfig(), fixedLoader(boardRecords()))
	t.Cleanup(gm.stop)

	w := get(t, handler, "/healthz")

	if got := w.Header().Get("Content-Security-Policy"); got != "default-src 'self'" {
		t.Fatalf("unexpected CSP %q", got)
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS sent over plain http: %q", got)
	}
}

func TestPrefix(t *testing.T) {
	cfg := newTestConfig()
	cfg.prefix = "/games"

	handler, gm := newRouter(cfg, fixedLoader(boardRecords()))
	t.Cleanup(gm.stop)

	w := get(t, handler, "/games/jeopardy/abc123")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), "/games/assets/jeopardy/app.js") {
		t.Fatal("asset paths are missing the prefix")
	}

	w = get(t, handler, "/games/jeopardy")
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/games/jeopardy/") {
		t.Fatalf("redirect ignores prefix: %q", loc)
	}
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	if got := realIP(r); got != "10.0.0.1:1234" {
		t.Fatalf("got %q", got)
	}

	r.Header.Set("X-Real-IP", "192.0.2.7")
	if got := realIP(r); got != "192.0.2.7:1234" {
		t.Fatalf("got %q", got)
	}

	r.Header.Set("CF-Connecting-IP", "2001:db8::1")
	if got := realIP(r); got != "[2001:db8::1]:1234" {
		t.Fatalf("got %q", got)
	}
}

func TestFailedUpgradeCreatesNoGame(t *testing.T) {
	loader := fixedLoader(boardRecords())

	handler, gm := newRouter(newTestConfig(), loader)
	t.Cleanup(gm.stop)

	w := get(t, handler, "/jeopardy/plain/ws")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from a non-websocket request, got %d", w.Code)
	}

	gm.mu.Lock()
	n := len(gm.hubs)
	gm.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected no games, got %d", n)
	}

	loader.mu.Lock()
	calls := loader.calls
	loader.mu.Unlock()
	if calls != 0 {
		t.Fatalf("expected no board to be drawn, got %d loads", calls)
	}
}
