package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFetchSendsUserAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := New(0, "jobsift-test/1.0", zap.NewNop())

	body, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "ok") {
		t.Fatalf("unexpected body: %q", body)
	}
	if gotAgent != "jobsift-test/1.0" {
		t.Fatalf("unexpected user agent: %q", gotAgent)
	}
}

func TestFetchRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(0, "", zap.NewNop())

	if _, err := c.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestPageBuildsContentViews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body>
<nav>Home</nav>
<main><h1>Backend Engineer</h1><p>Remote role at Acme.</p></main>
</body></html>`))
	}))
	defer srv.Close()

	c := New(0, "", zap.NewNop())

	page, err := c.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.URL != srv.URL {
		t.Fatalf("unexpected page url: %q", page.URL)
	}
	if !strings.Contains(page.HTML, "<nav>") {
		t.Fatalf("raw html should be untouched: %q", page.HTML)
	}
	if strings.Contains(page.Text, "Home") {
		t.Fatalf("nav leaked into text: %q", page.Text)
	}
	if !strings.Contains(page.Text, "Backend Engineer") {
		t.Fatalf("text missing heading: %q", page.Text)
	}
	if !strings.Contains(page.Markdown, "Backend Engineer") {
		t.Fatalf("markdown missing heading: %q", page.Markdown)
	}
}
