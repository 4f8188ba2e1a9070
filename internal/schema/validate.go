package schema

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// matchThreshold is the minimum similarity for a fuzzy vocabulary match.
const matchThreshold = 0.6

// Normalize completes a partial record into a schema-conformant one. It is a
// pure function: no I/O, no failure modes. Enum fields are snapped to their
// vocabulary or defaulted, list fields are deduplicated and capped, free-text
// fields are trimmed. Normalizing an already-normalized record is a no-op.
func Normalize(rec Record) Record {
	rec.Title = strings.TrimSpace(rec.Title)
	rec.Company = strings.TrimSpace(rec.Company)
	rec.City = strings.TrimSpace(rec.City)
	rec.Country = strings.TrimSpace(rec.Country)
	rec.URL = strings.TrimSpace(rec.URL)
	rec.SalaryLow = strings.TrimSpace(rec.SalaryLow)
	rec.SalaryHigh = strings.TrimSpace(rec.SalaryHigh)

	rec.OfficeType = normalizeChoice(rec.OfficeType, OfficeTypes, "")
	rec.ExperienceLevel = normalizeChoice(rec.ExperienceLevel, ExperienceLevels, "")
	rec.EmploymentType = normalizeChoice(rec.EmploymentType, EmploymentTypes, "")
	rec.Visa = normalizeChoice(rec.Visa, VisaOptions, "No")

	rec.Industries = normalizeList(rec.Industries, Industries, MaxIndustries)
	rec.Skills = dedupeList(rec.Skills)
	rec.Benefits = strings.TrimSpace(rec.Benefits)

	if cur := strings.TrimSpace(rec.Currency); cur != "" {
		rec.Currency = string([]rune(cur)[0])
	} else {
		rec.Currency = ""
	}

	if strings.TrimSpace(rec.JI) == "i" {
		rec.JI = "i"
	} else {
		rec.JI = "j"
	}

	return rec
}

// normalizeChoice snaps a raw value to its vocabulary. Exact matches are kept
// verbatim, otherwise the closest entry above the similarity threshold wins,
// otherwise the fallback applies. Unknown values never pass through.
func normalizeChoice(val string, vocab []string, fallback string) string {
	v := strings.TrimSpace(val)
	if v == "" {
		return fallback
	}

	for _, choice := range vocab {
		if v == choice {
			return v
		}
	}

	best := ""
	bestScore := 0.0
	for _, choice := range vocab {
		if score := similarity(v, choice); score > bestScore {
			best = choice
			bestScore = score
		}
	}

	if bestScore < matchThreshold {
		return fallback
	}
	return best
}

// normalizeList splits a comma-joined value, snaps each token to the
// vocabulary, drops tokens below the threshold, deduplicates in first-seen
// order and caps the result at max entries.
func normalizeList(val string, vocab []string, max int) string {
	var out []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		canonical := normalizeChoice(item, vocab, "")
		if canonical == "" {
			continue
		}

		if !contains(out, canonical) {
			out = append(out, canonical)
		}
		if max > 0 && len(out) >= max {
			break
		}
	}

	return strings.Join(out, ",")
}

// dedupeList trims and deduplicates a comma-joined free-text list, keeping
// the first-seen spelling of each entry.
func dedupeList(val string) string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}

	return strings.Join(out, ",")
}

// similarity scores two strings in [0,1] using the normalized Levenshtein
// distance of their lowercase forms.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
