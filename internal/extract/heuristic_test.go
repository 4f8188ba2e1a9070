package extract

import (
	"strings"
	"testing"
)

func TestExtractSalary(t *testing.T) {
	cases := []struct {
		name string
		text string
		cur  string
		low  string
		high string
	}{
		{"rupee range with commas", "CTC ₹50,000 - ₹70,000 per month", "₹", "50000", "70000"},
		{"dollar k range", "Pay: $100k-$120k DOE", "$", "100", "120"},
		{"euro to separator", "Salary €40,000 to 55,000", "€", "40000", "55000"},
		{"no salary", "Competitive compensation", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cur, low, high := extractSalary(tc.text)
			if cur != tc.cur || low != tc.low || high != tc.high {
				t.Fatalf("got (%q, %q, %q), want (%q, %q, %q)", cur, low, high, tc.cur, tc.low, tc.high)
			}
		})
	}
}

func TestExtractOfficeType(t *testing.T) {
	cases := []struct {
		text      string
		want      string
		keyworded bool
	}{
		{"This is a fully Remote position", "Remote", true},
		{"Work from home allowed", "Remote", true},
		{"Hybrid, 2 days in the office", "Hybrid", true},
		{"Remote or hybrid", "Remote", true},
		{"Join our Bangalore office", "In-Office", false},
	}

	for _, tc := range cases {
		got, keyworded := extractOfficeType(tc.text)
		if got != tc.want || keyworded != tc.keyworded {
			t.Fatalf("%q: got (%q, %v), want (%q, %v)", tc.text, got, keyworded, tc.want, tc.keyworded)
		}
	}
}

func TestExtractExperienceLevelFirstMatchWins(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Intern wanted for summer", "Intern"},
		{"Intern or entry-level welcome", "Intern"},
		{"Entry-level role", "Entry-Level"},
		{"Mid-level backend developer", "Associate/Mid-Level"},
		{"Senior Backend Engineer", "Senior-Level"},
		{"Engineering Manager", "Managerial"},
		{"Executive assistant", "Executive"},
		{"Internship program", ""},
		{"Backend developer", ""},
	}

	for _, tc := range cases {
		if got := extractExperienceLevel(tc.text); got != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractIndustriesCapped(t *testing.T) {
	text := "We operate in tech, healthcare, marketing, consulting and finance."

	got := extractIndustries(text, 3)
	if got != "Tech,Healthcare,Marketing" {
		t.Fatalf("unexpected industries: %q", got)
	}
}

func TestExtractIndustriesTableOrder(t *testing.T) {
	// finance appears first in the text but later in the keyword table
	text := "A finance-adjacent healthtech startup"

	got := extractIndustries(text, 3)
	if got != "Tech,Healthcare,Finance" {
		t.Fatalf("unexpected industries: %q", got)
	}
}

func TestHeuristicMissesOnDefaultOnlyText(t *testing.T) {
	h := NewHeuristic()

	rec := h.Extract(&Page{URL: "https://example.com", Text: "Welcome to our careers portal."})
	if rec != nil {
		t.Fatalf("expected nil for text with no signals, got %+v", rec)
	}
}

func TestHeuristicReportsDefaultOfficeTypeOnOtherHit(t *testing.T) {
	h := NewHeuristic()

	rec := h.Extract(&Page{Text: "Senior engineer needed at our Pune office."})
	if rec == nil {
		t.Fatal("expected a hit")
	}
	if rec.ExperienceLevel != "Senior-Level" {
		t.Fatalf("unexpected experience level: %q", rec.ExperienceLevel)
	}
	if rec.OfficeType != "In-Office" {
		t.Fatalf("expected In-Office default, got %q", rec.OfficeType)
	}
}

func TestHeuristicFullExtraction(t *testing.T) {
	text := strings.Join([]string{
		"Senior Fintech Engineer (Hybrid)",
		"We build consumer finance tech.",
		"Compensation: $90,000 - $120,000 plus equity.",
	}, "\n")

	rec := NewHeuristic().Extract(&Page{Text: text})
	if rec == nil {
		t.Fatal("expected a hit")
	}
	if rec.OfficeType != "Hybrid" {
		t.Fatalf("unexpected office type: %q", rec.OfficeType)
	}
	if rec.Currency != "$" || rec.SalaryLow != "90000" || rec.SalaryHigh != "120000" {
		t.Fatalf("unexpected salary: %q %q %q", rec.Currency, rec.SalaryLow, rec.SalaryHigh)
	}
	if rec.ExperienceLevel != "Senior-Level" {
		t.Fatalf("unexpected experience level: %q", rec.ExperienceLevel)
	}
	if rec.Industries != "Tech,Finance" {
		t.Fatalf("unexpected industries: %q", rec.Industries)
	}
}

func TestHeuristicEmptyText(t *testing.T) {
	if rec := NewHeuristic().Extract(&Page{Text: ""}); rec != nil {
		t.Fatalf("expected nil on empty text, got %+v", rec)
	}
}
