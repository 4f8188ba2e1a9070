// Package source reads the input listing of job posting URLs.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingURLColumn is returned when the input file has no url header.
var ErrMissingURLColumn = errors.New("input file has no url column")

// ReadURLs loads the delimited input file and returns every non-empty value
// of its url column, in file order. The column is located by header name,
// case-insensitively.
func ReadURLs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingURLColumn
	}
	if err != nil {
		return nil, fmt.Errorf("reading input header: %w", err)
	}

	urlColumn := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "url") {
			urlColumn = i
			break
		}
	}
	if urlColumn == -1 {
		return nil, ErrMissingURLColumn
	}

	var urls []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading input row: %w", err)
		}
		if urlColumn >= len(row) {
			continue
		}
		if url := strings.TrimSpace(row[urlColumn]); url != "" {
			urls = append(urls, url)
		}
	}

	return urls, nil
}
