package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JobLinks collects anchors that look like job postings on a career homepage.
// The filter is deliberately naive: any href containing "job" qualifies.
// Relative links are resolved against the page URL; duplicates are dropped in
// first-seen order.
func JobLinks(html, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !strings.Contains(strings.ToLower(href), "job") {
			return
		}

		full := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				full = base.ResolveReference(ref).String()
			}
		}

		if !seen[full] {
			seen[full] = true
			links = append(links, full)
		}
	})

	return links
}
