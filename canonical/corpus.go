package canonical

import (
	"context"
	"strings"

	"github.com/rlch/autocanon"
)

// ArgRef identifies an argument within a class.
type ArgRef struct {
	Query    string
	Argument string
}

// String returns "query.argument", the form the scorer reports adjectives in.
func (r ArgRef) String() string {
	return r.Query + "." + r.Argument
}

// ParseArgRef splits "query.argument" at the first dot.
// Argument names may themselves contain dots.
func ParseArgRef(s string) (ArgRef, bool) {
	query, arg, ok := strings.Cut(s, ".")
	if !ok || query == "" || arg == "" {
		return ArgRef{}, false
	}

	return ArgRef{Query: query, Argument: arg}, true
}

// QueryPaths carries what the scorer needs to know about one query besides
// its examples.
type QueryPaths struct {
	// Canonical is the query's display name.
	Canonical string `json:"canonical"`

	// Params maps argument names to parameter dataset files.
	Params map[string]string `json:"params"`
}

// Corpus is the full request sent to the scorer in one call.
// Field order is part of the wire format: the scorer unpacks examples first.
type Corpus struct {
	Examples map[string]map[string]map[autocanon.GrammarCategory]*ExampleSet `json:"examples"`
	Paths    map[string]*QueryPaths                                          `json:"paths"`
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		Examples: make(map[string]map[string]map[autocanon.GrammarCategory]*ExampleSet),
		Paths:    make(map[string]*QueryPaths),
	}
}

// Size returns the total number of examples.
func (c *Corpus) Size() int {
	n := 0

	for _, args := range c.Examples {
		for _, cats := range args {
			for _, set := range cats {
				n += len(set.Examples)
			}
		}
	}

	return n
}

// CategoryResult is the scorer's output for one category of one argument.
type CategoryResult struct {
	// Candidates maps each proposed phrase to the number of examples proposing it.
	Candidates map[string]int `json:"candidates"`

	// Examples echoes the request examples with their candidates filled in.
	Examples []Example `json:"examples"`
}

// Result is the scorer's response.
type Result struct {
	Synonyms   map[string]map[string]map[autocanon.GrammarCategory]*CategoryResult `json:"synonyms"`
	Adjectives []string                                                             `json:"adjectives"`
}

// Scorer proposes candidate phrases for a corpus.
// A call covers the whole corpus; there are no partial results.
type Scorer interface {
	Score(ctx context.Context, corpus *Corpus) (*Result, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, corpus *Corpus) (*Result, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, corpus *Corpus) (*Result, error) {
	return f(ctx, corpus)
}
