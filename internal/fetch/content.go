package fetch

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before the main content is located. They carry
// navigation and chrome, not the posting itself.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "svg",
	"form", "button", "input", "select", "textarea",
}

// MainContent isolates the job posting body from a full HTML page: noise
// elements are dropped, then the first <main> or <article> wins, falling back
// to <body>. The returned string is an HTML fragment.
func MainContent(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() == 0 {
			continue
		}
		fragment, err := goquery.OuterHtml(sel.First())
		if err != nil {
			return ""
		}
		return fragment
	}

	return ""
}

// FlattenText renders an HTML fragment as newline-separated plain text with
// blank lines collapsed.
func FlattenText(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// Markdown converts an HTML fragment into Markdown for the generative prompt.
func Markdown(fragment string) (string, error) {
	if fragment == "" {
		return "", nil
	}
	return htmltomarkdown.ConvertString(fragment)
}
