package fetch

import (
	"strings"
	"testing"
)

func TestMainContentPrefersMain(t *testing.T) {
	html := `<html><body>
<nav>Home | About</nav>
<main><h1>Backend Engineer</h1><p>Remote role.</p></main>
<footer>© Acme</footer>
</body></html>`

	fragment := MainContent(html)
	if !strings.Contains(fragment, "Backend Engineer") {
		t.Fatalf("main content missing heading: %q", fragment)
	}
	if strings.Contains(fragment, "About") || strings.Contains(fragment, "© Acme") {
		t.Fatalf("nav or footer leaked into content: %q", fragment)
	}
}

func TestMainContentFallsBackToBody(t *testing.T) {
	html := `<html><body><p>Just a description.</p><script>tracker()</script></body></html>`

	fragment := MainContent(html)
	if !strings.Contains(fragment, "Just a description.") {
		t.Fatalf("body content missing: %q", fragment)
	}
	if strings.Contains(fragment, "tracker") {
		t.Fatalf("script leaked into content: %q", fragment)
	}
}

func TestFlattenTextCollapsesBlankLines(t *testing.T) {
	fragment := "<div><p>First</p>\n\n\n<p>  Second  </p></div>"

	got := FlattenText(fragment)
	if got != "First\nSecond" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestFlattenTextEmpty(t *testing.T) {
	if got := FlattenText(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestJobLinks(t *testing.T) {
	html := `<html><body>
<a href="/jobs/123">Engineer</a>
<a href="https://other.example/careers/job/456">Analyst</a>
<a href="/about">About us</a>
<a href="/jobs/123">Engineer again</a>
</body></html>`

	links := JobLinks(html, "https://acme.example/careers")
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %v", links)
	}
	if links[0] != "https://acme.example/jobs/123" {
		t.Fatalf("relative link not resolved: %q", links[0])
	}
	if links[1] != "https://other.example/careers/job/456" {
		t.Fatalf("absolute link mangled: %q", links[1])
	}
}

func TestJobLinksNoMatches(t *testing.T) {
	if links := JobLinks(`<a href="/about">About</a>`, "https://acme.example"); len(links) != 0 {
		t.Fatalf("expected no links, got %v", links)
	}
}
