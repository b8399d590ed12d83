package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rlch/autocanon"
)

// Value is one sampled constant.
type Value struct {
	// Value is the literal value as it would appear in a program.
	Value string

	// Display is the human-readable rendering.
	Display string
}

// Store maps lookup keys to sampled constants.
type Store map[string][]Value

// LoadConstants reads a constants file.
func LoadConstants(path string) (Store, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening constants: %w", err)
	}
	defer func() { _ = f.Close() }()

	store, err := ParseConstants(f)
	if err != nil {
		return nil, fmt.Errorf("reading constants %s: %w", path, err)
	}

	return store, nil
}

// ParseConstants parses tab-separated rows of key, value and optional display.
// Blank lines and lines starting with '#' are ignored.
func ParseConstants(r io.Reader) (Store, error) {
	store := make(Store)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected key and value", lineNo)
		}

		v := Value{Value: fields[1], Display: fields[1]}
		if len(fields) > 2 && fields[2] != "" {
			v.Display = fields[2]
		}

		store[fields[0]] = append(store[fields[0]], v)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return store, nil
}

// TypeKey returns the key an argument's type is stored under: the entity type
// for entity arguments, the type's display form otherwise.
func TypeKey(t *autocanon.Type) string {
	if t.IsEntity() {
		return t.Name
	}

	return t.String()
}

// PathKeys returns the dataset index keys for an argument, most specific first.
func PathKeys(kind, query string, arg *autocanon.Argument) []string {
	return []string{
		kind + ":" + query + "_" + arg.Name,
		TypeKey(arg.Type),
	}
}

// SampleKeys returns the constants store keys for an argument, most specific first.
func SampleKeys(kind, query string, arg *autocanon.Argument) []string {
	return []string{
		"@" + kind + "." + query + "+" + arg.Name,
		TypeKey(arg.Type),
	}
}

// Retriever resolves sample values for the arguments of one class.
type Retriever struct {
	kind  string
	store Store
}

// NewRetriever creates a Retriever over store for the class kind.
func NewRetriever(kind string, store Store) *Retriever {
	return &Retriever{kind: kind, store: store}
}

// Retrieve returns the sample values for an argument. The first key with a
// non-empty entry wins. String arguments yield literal values, everything
// else yields display strings. Returns false when no key matches.
func (r *Retriever) Retrieve(query string, arg *autocanon.Argument) ([]string, bool) {
	for _, key := range SampleKeys(r.kind, query, arg) {
		values := r.store[key]
		if len(values) == 0 {
			continue
		}

		samples := make([]string, len(values))
		for i, v := range values {
			if arg.Type.IsString() {
				samples[i] = v.Value
			} else {
				samples[i] = v.Display
			}
		}

		return samples, true
	}

	return nil, false
}
