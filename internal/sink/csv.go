package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/vtrofin/jobsift/internal/schema"
)

// CSV appends records to a delimited file, writing the header only when the
// target is new or empty.
type CSV struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSV opens (or creates) the output file in append mode.
func NewCSV(path string) (*CSV, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening output file %q: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat output file %q: %w", path, err)
	}

	s := &CSV{file: file, writer: csv.NewWriter(file)}
	if info.Size() == 0 {
		if err := s.writer.Write(schema.Header()); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
		s.writer.Flush()
		if err := s.writer.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("flushing header: %w", err)
		}
	}

	return s, nil
}

func (s *CSV) Write(rec schema.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Write(rec.Values()); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
