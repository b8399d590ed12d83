// Package dataset locates and loads the sample data a generation run draws on:
// the parameter dataset index and the constants store.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Index maps dataset keys to parameter dataset file paths.
// It is loaded once per run and read-only afterwards.
type Index struct {
	// Dir is the directory of the index file; relative paths are resolved against it.
	Dir string

	paths      map[string]string
	incomplete []string
}

// LoadIndex reads a dataset index file.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening dataset index: %w", err)
	}
	defer func() { _ = f.Close() }()

	idx, err := ParseIndex(f)
	if err != nil {
		return nil, fmt.Errorf("reading dataset index %s: %w", path, err)
	}

	idx.Dir = filepath.Dir(path)

	return idx, nil
}

// ParseIndex parses tab-separated index rows. Column 0 is ignored, column 1
// is the key and column 2 the path. Rows with fewer than three fields record
// the key with a missing path. Later rows override earlier ones.
func ParseIndex(r io.Reader) (*Index, error) {
	idx := &Index{paths: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			if len(fields) == 2 {
				idx.paths[fields[1]] = ""
				idx.markIncomplete(fields[1], true)
			}

			continue
		}

		idx.paths[fields[1]] = fields[2]
		idx.markIncomplete(fields[1], false)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return idx, nil
}

// markIncomplete records or clears key as lacking a path. The last row for a key decides.
func (idx *Index) markIncomplete(key string, incomplete bool) {
	idx.incomplete = slices.DeleteFunc(idx.incomplete, func(k string) bool { return k == key })

	if incomplete {
		idx.incomplete = append(idx.incomplete, key)
	}
}

// Len returns the number of keys, including keys with a missing path.
func (idx *Index) Len() int {
	return len(idx.paths)
}

// Incomplete returns the keys whose last row had no path column.
func (idx *Index) Incomplete() []string {
	return idx.incomplete
}

// Lookup returns the raw path for key. Keys with a missing path report false.
func (idx *Index) Lookup(key string) (string, bool) {
	if idx == nil {
		return "", false
	}

	p := idx.paths[key]

	return p, p != ""
}

// Find returns the path of the first key that has one.
func (idx *Index) Find(keys ...string) (string, bool) {
	for _, key := range keys {
		if p, ok := idx.Lookup(key); ok {
			return p, true
		}
	}

	return "", false
}

// Resolve returns the path for the first key that has one, joined with the
// index directory when relative, but only if the file exists.
func (idx *Index) Resolve(keys ...string) (string, bool) {
	p, ok := idx.Find(keys...)
	if !ok {
		return "", false
	}

	if !filepath.IsAbs(p) {
		p = filepath.Join(idx.Dir, p)
	}

	if _, err := os.Stat(p); err != nil {
		return "", false
	}

	return p, true
}
