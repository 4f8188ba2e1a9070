package sink

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vtrofin/jobsift/internal/schema"
)

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	office_type TEXT NOT NULL DEFAULT '',
	experience_level TEXT NOT NULL DEFAULT '',
	employment_type TEXT NOT NULL DEFAULT '',
	industries TEXT NOT NULL DEFAULT '',
	visa TEXT NOT NULL DEFAULT '',
	benefits TEXT NOT NULL DEFAULT '',
	skills TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	ji TEXT NOT NULL DEFAULT '',
	currency TEXT NOT NULL DEFAULT '',
	salary_low TEXT NOT NULL DEFAULT '',
	salary_high TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

// SQLite persists records into a local jobs table.
type SQLite struct {
	mu   sync.Mutex
	pool *sql.DB
}

// OpenSQLite opens (or creates) the database and ensures the jobs table
// exists.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging sqlite %q: %w", path, err)
	}

	if _, err := pool.Exec(createJobsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLite{pool: pool}, nil
}

func (s *SQLite) Write(rec schema.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.pool.Exec(`
INSERT INTO jobs (title, company, city, country, office_type, experience_level,
	employment_type, industries, visa, benefits, skills, url, ji, currency,
	salary_low, salary_high)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.Title, rec.Company, rec.City, rec.Country, rec.OfficeType,
		rec.ExperienceLevel, rec.EmploymentType, rec.Industries, rec.Visa,
		rec.Benefits, rec.Skills, rec.URL, rec.JI, rec.Currency,
		rec.SalaryLow, rec.SalaryHigh,
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.pool.Close()
}
