package autocanon

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class is a named collection of queries, e.g. the schema of one device or website.
type Class struct {
	// Kind is the fully qualified class name (e.g., "com.yelp").
	Kind string `yaml:"kind"`

	// Queries are the tables/functions of the class, in file order.
	Queries []*Query `yaml:"queries"`
}

// Query is a table or function definition.
type Query struct {
	// Name is the query identifier (e.g., "restaurant").
	Name string `yaml:"name"`

	// Canonical is the display name used in rendered sentences.
	Canonical string `yaml:"canonical,omitempty"`

	// Args are the query's arguments, in file order.
	Args []*Argument `yaml:"args"`
}

// Argument is a typed parameter of a query.
type Argument struct {
	// Name is unique within the query.
	Name string `yaml:"name"`

	// Type is the argument's type descriptor.
	Type *Type `yaml:"type"`

	// Canonical holds the argument's canonical phrases. Nil when not annotated.
	Canonical *CanonicalMetadata `yaml:"canonical,omitempty"`
}

// Query returns the query with the given name, or nil.
func (c *Class) Query(name string) *Query {
	for _, q := range c.Queries {
		if q.Name == name {
			return q
		}
	}

	return nil
}

// QueryNames returns the query names in order.
func (c *Class) QueryNames() []string {
	names := make([]string, len(c.Queries))
	for i, q := range c.Queries {
		names[i] = q.Name
	}

	return names
}

// Argument returns the argument with the given name, or nil.
func (q *Query) Argument(name string) *Argument {
	for _, arg := range q.Args {
		if arg.Name == name {
			return arg
		}
	}

	return nil
}

// CanonicalName returns the display name of the query, deriving one from the
// query name when none was authored.
func (q *Query) CanonicalName() string {
	if q.Canonical != "" {
		return q.Canonical
	}

	return Clean(q.Name)
}

var (
	namePrefixRe = regexp.MustCompile(`^[vwgp]_`)
	camelCaseRe  = regexp.MustCompile(`([^A-Z ])([A-Z])`)
)

// Clean turns an identifier into lower-case words:
// "p_numReviews" -> "num reviews", "serves_cuisine" -> "serves cuisine".
func Clean(name string) string {
	name = namePrefixRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "_", " ")
	name = camelCaseRe.ReplaceAllString(name, "$1 $2")

	return strings.ToLower(name)
}

// LoadClassFile loads a Class from a YAML file.
func LoadClassFile(path string) (*Class, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading class file: %w", err)
	}

	class, err := ParseClass(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return class, nil
}

// ParseClass parses a Class from YAML and validates it.
func ParseClass(data []byte) (*Class, error) {
	var class Class
	if err := yaml.Unmarshal(data, &class); err != nil {
		return nil, fmt.Errorf("parsing class: %w", err)
	}

	if err := class.Validate(); err != nil {
		return nil, err
	}

	return &class, nil
}

// Validate checks that query and argument names are unique and that every
// argument has a type.
func (c *Class) Validate() error {
	if c.Kind == "" {
		return fmt.Errorf("%w: missing kind", ErrInvalidClass)
	}

	seenQueries := make(map[string]bool, len(c.Queries))

	for _, q := range c.Queries {
		if q.Name == "" {
			return fmt.Errorf("%w: query without name", ErrInvalidClass)
		}

		if seenQueries[q.Name] {
			return fmt.Errorf("%w: duplicate query %q", ErrInvalidClass, q.Name)
		}

		seenQueries[q.Name] = true
		seenArgs := make(map[string]bool, len(q.Args))

		for _, arg := range q.Args {
			if seenArgs[arg.Name] {
				return fmt.Errorf("%w: duplicate argument %s.%s", ErrInvalidClass, q.Name, arg.Name)
			}

			seenArgs[arg.Name] = true

			if arg.Type == nil {
				return fmt.Errorf("%w: argument %s.%s has no type", ErrInvalidClass, q.Name, arg.Name)
			}
		}
	}

	return nil
}

// WriteClass writes a Class as YAML to the given writer.
func WriteClass(w io.Writer, class *Class) (err error) {
	if _, err := fmt.Fprintf(w, "# canonical annotations for %s\n\n", class.Kind); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer func() {
		if cerr := encoder.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return encoder.Encode(class)
}
