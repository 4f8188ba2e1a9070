// Package sink persists finalized job records. Sinks are append-only and
// safe for concurrent writers.
package sink

import "github.com/vtrofin/jobsift/internal/schema"

// Sink receives validated records for persistence.
type Sink interface {
	Write(rec schema.Record) error
	Close() error
}
