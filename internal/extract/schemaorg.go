package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vtrofin/jobsift/internal/schema"
)

// SchemaOrg extracts schema.org JobPosting metadata embedded in the page as
// JSON-LD. Only the first JobPosting block is used; additional candidates are
// not merged. Missing or malformed markup is a silent miss.
type SchemaOrg struct{}

// NewSchemaOrg creates the structured-metadata strategy.
func NewSchemaOrg() *SchemaOrg {
	return &SchemaOrg{}
}

func (s *SchemaOrg) Name() string { return "schema_org" }

func (s *SchemaOrg) Extract(page *Page) *schema.Record {
	if page == nil || page.HTML == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil
	}

	var rec *schema.Record
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if posting := findJobPosting(sel.Text()); posting != nil {
			rec = postingToRecord(posting)
			return false
		}
		return true
	})

	return rec
}

// findJobPosting decodes a JSON-LD block and returns the first JobPosting
// object in it. Blocks may hold a single object, an array of objects, or an
// @graph wrapper.
func findJobPosting(raw string) map[string]any {
	var block any
	if err := json.Unmarshal([]byte(raw), &block); err != nil {
		return nil
	}

	var candidates []any
	switch v := block.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			candidates = graph
		} else {
			candidates = []any{v}
		}
	case []any:
		candidates = v
	}

	for _, candidate := range candidates {
		obj, ok := candidate.(map[string]any)
		if !ok {
			continue
		}
		if isJobPosting(obj["@type"]) {
			return obj
		}
	}

	return nil
}

func isJobPosting(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func postingToRecord(job map[string]any) *schema.Record {
	rec := &schema.Record{
		Title:          asString(job["title"]),
		EmploymentType: asString(job["employmentType"]),
	}

	if org, ok := job["hiringOrganization"].(map[string]any); ok {
		rec.Company = asString(org["name"])
	}

	if addr := firstAddress(job["jobLocation"]); addr != nil {
		rec.City = asString(addr["addressLocality"])
		rec.Country = asString(addr["addressCountry"])
	}

	if base, ok := job["baseSalary"].(map[string]any); ok {
		if value, ok := base["value"].(map[string]any); ok {
			rec.SalaryLow = asString(value["minValue"])
			rec.SalaryHigh = asString(value["maxValue"])
			rec.Currency = asString(value["currency"])
		}
	}

	return rec
}

// firstAddress returns the address of the first job location. jobLocation is
// an object or a list of objects depending on the publisher.
func firstAddress(loc any) map[string]any {
	var place map[string]any
	switch v := loc.(type) {
	case map[string]any:
		place = v
	case []any:
		if len(v) > 0 {
			place, _ = v[0].(map[string]any)
		}
	}
	if place == nil {
		return nil
	}

	addr, _ := place["address"].(map[string]any)
	return addr
}

// asString renders JSON scalar values as text. Numbers lose no precision:
// integral floats print without a fraction.
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case map[string]any:
		// addressCountry may be a nested Country object
		return asString(val["name"])
	default:
		return ""
	}
}
