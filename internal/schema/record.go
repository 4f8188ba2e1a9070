package schema

// Closed vocabularies for the enum fields. Order matters for industries:
// fuzzy matching and keyword scans walk them in declaration order.
var (
	OfficeTypes = []string{
		"Remote",
		"Hybrid",
		"In-Office",
		"Remote-Anywhere",
	}

	ExperienceLevels = []string{
		"Intern",
		"Entry-Level",
		"Associate/Mid-Level",
		"Senior-Level",
		"Managerial",
		"Executive",
	}

	EmploymentTypes = []string{
		"Full-Time",
		"Part-Time",
		"Contract",
		"Freelance",
		"Temporary",
	}

	Industries = []string{
		"Tech",
		"Healthcare",
		"Marketing",
		"Consulting",
		"Finance",
		"Manufacturing",
	}

	VisaOptions = []string{
		"Yes",
		"No",
	}
)

// MaxIndustries caps the industries list on every record.
const MaxIndustries = 3

// Record is the canonical job posting unit. Every field is a string and an
// unset field is the empty string; records coming out of Normalize never
// carry values outside the vocabularies above.
type Record struct {
	Title           string
	Company         string
	City            string
	Country         string
	OfficeType      string
	ExperienceLevel string
	EmploymentType  string
	Industries      string
	Visa            string
	Benefits        string
	Skills          string
	URL             string
	JI              string
	Currency        string
	SalaryLow       string
	SalaryHigh      string
}

// Header returns the column names in output order.
func Header() []string {
	return []string{
		"title", "company", "city", "country", "officeType", "experienceLevel",
		"employmentType", "industries", "visa", "benefits", "skills", "url", "j/i",
		"currency", "salaryLow", "salaryHigh",
	}
}

// Values returns the record fields in the same order as Header.
func (r Record) Values() []string {
	return []string{
		r.Title, r.Company, r.City, r.Country, r.OfficeType, r.ExperienceLevel,
		r.EmploymentType, r.Industries, r.Visa, r.Benefits, r.Skills, r.URL, r.JI,
		r.Currency, r.SalaryLow, r.SalaryHigh,
	}
}

// IsEmpty reports whether the record carries no extracted data. URL and the
// j/i marker are bookkeeping, not data, so they are ignored.
func (r Record) IsEmpty() bool {
	probe := r
	probe.URL = ""
	probe.JI = ""
	for _, v := range probe.Values() {
		if v != "" {
			return false
		}
	}
	return true
}
