package sink

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/vtrofin/jobsift/internal/schema"
)

// RawDump appends one comma-joined line per record to a plain text file.
// It exists for eyeballing batches while debugging, next to the real output.
type RawDump struct {
	mu   sync.Mutex
	file *os.File
}

// NewRawDump opens (or creates) the dump file in append mode.
func NewRawDump(path string) (*RawDump, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening raw dump %q: %w", path, err)
	}
	return &RawDump{file: file}, nil
}

func (d *RawDump) Write(rec schema.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := strings.Join(rec.Values(), ",") + "\n"
	if _, err := d.file.WriteString(line); err != nil {
		return fmt.Errorf("appending raw line: %w", err)
	}
	return nil
}

func (d *RawDump) Close() error {
	return d.file.Close()
}
