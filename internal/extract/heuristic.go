package extract

import (
	"regexp"
	"strings"

	"github.com/vtrofin/jobsift/internal/schema"
)

// salaryPattern covers ranges like "₹50,000 - ₹70,000" and "$100k-$120k".
// The second currency symbol is optional and ignored; the first one wins.
var salaryPattern = regexp.MustCompile(
	`(?P<currency>[₹$€])\s*(?P<low>[\d,]+)\s*[kK]?\s*(?:-|–|—|to)\s*[₹$€]?\s*(?P<high>[\d,]+)\s*[kK]?`,
)

var (
	remoteKeywords = regexp.MustCompile(`(?i)\b(remote|work from home|telecommute)\b`)
	hybridKeywords = regexp.MustCompile(`(?i)\bhybrid\b`)
)

// experiencePatterns maps keywords to standardized levels. Order matters:
// the first matching pattern wins.
var experiencePatterns = []struct {
	pattern *regexp.Regexp
	level   string
}{
	{regexp.MustCompile(`\bintern\b`), "Intern"},
	{regexp.MustCompile(`\bentry[- ]level\b`), "Entry-Level"},
	{regexp.MustCompile(`\bassociate\b`), "Associate/Mid-Level"},
	{regexp.MustCompile(`\bmid[- ]level\b`), "Associate/Mid-Level"},
	{regexp.MustCompile(`\bsenior\b`), "Senior-Level"},
	{regexp.MustCompile(`\bmanager\b`), "Managerial"},
	{regexp.MustCompile(`\bexecutive\b`), "Executive"},
}

// industryKeywords maps substrings to industry tags, scanned in declared
// order until schema.MaxIndustries tags are found.
var industryKeywords = []struct {
	keyword  string
	industry string
}{
	{"tech", "Tech"},
	{"health", "Healthcare"},
	{"market", "Marketing"},
	{"consult", "Consulting"},
	{"finance", "Finance"},
	{"manufactur", "Manufacturing"},
}

// Heuristic recovers salary, office type, experience level and industry tags
// from raw page text with pattern rules. Each sub-extraction is independent
// and yields empty on no match; the strategy as a whole never fails.
type Heuristic struct{}

// NewHeuristic creates the pattern-rule strategy.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Extract(page *Page) *schema.Record {
	if page == nil || page.Text == "" {
		return nil
	}
	text := page.Text

	rec := &schema.Record{}
	rec.Currency, rec.SalaryLow, rec.SalaryHigh = extractSalary(text)
	rec.ExperienceLevel = extractExperienceLevel(text)
	rec.Industries = extractIndustries(text, schema.MaxIndustries)

	officeType, keyworded := extractOfficeType(text)

	// The In-Office default alone is not evidence the page describes a job;
	// without it every page would count as a heuristic hit and the generative
	// fallback would be unreachable.
	if rec.IsEmpty() && !keyworded {
		return nil
	}

	rec.OfficeType = officeType
	return rec
}

// extractSalary returns (currency, low, high) or empty strings when the text
// holds no recognizable salary range. Thousands separators are stripped.
func extractSalary(text string) (string, string, string) {
	m := salaryPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", ""
	}

	currency := m[salaryPattern.SubexpIndex("currency")]
	low := strings.ReplaceAll(m[salaryPattern.SubexpIndex("low")], ",", "")
	high := strings.ReplaceAll(m[salaryPattern.SubexpIndex("high")], ",", "")
	return currency, low, high
}

// extractOfficeType classifies the office arrangement. Remote keywords take
// precedence over hybrid ones; In-Office is the default. The second return
// reports whether an explicit keyword matched.
func extractOfficeType(text string) (string, bool) {
	if remoteKeywords.MatchString(text) {
		return "Remote", true
	}
	if hybridKeywords.MatchString(text) {
		return "Hybrid", true
	}
	return "In-Office", false
}

func extractExperienceLevel(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range experiencePatterns {
		if entry.pattern.MatchString(lower) {
			return entry.level
		}
	}
	return ""
}

func extractIndustries(text string, max int) string {
	lower := strings.ToLower(text)
	var found []string
	for _, entry := range industryKeywords {
		if len(found) == max {
			break
		}
		if strings.Contains(lower, entry.keyword) {
			found = append(found, entry.industry)
		}
	}
	return strings.Join(found, ",")
}
