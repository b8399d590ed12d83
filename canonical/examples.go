package canonical

import (
	"strings"

	"github.com/rlch/autocanon"
)

// Masks holds the token positions of the prefix and suffix spans.
type Masks struct {
	Prefix []int `json:"prefix"`
	Suffix []int `json:"suffix"`
}

// Example is one rendered sentence with its span masks.
type Example struct {
	// Query is the rendered sentence, tokens joined by single spaces.
	Query string `json:"query"`
	Masks Masks  `json:"masks"`

	// Value is the token positions of the sample value. Empty for base examples.
	Value []int `json:"value"`

	// Candidates are the phrases the scorer proposed for this example.
	// Only present in responses.
	Candidates []string `json:"candidates,omitempty"`
}

// Tokens returns the sentence tokens.
func (e Example) Tokens() []string {
	return strings.Split(e.Query, " ")
}

// ExampleSet is the examples of one category of one argument.
type ExampleSet struct {
	Examples []Example `json:"examples"`
}

func newExample(tokens []string, prefix, value, suffix string) Example {
	return Example{
		Query: strings.Join(tokens, " "),
		Masks: Masks{
			Prefix: Mask(tokens, prefix),
			Suffix: Mask(tokens, suffix),
		},
		Value: Mask(tokens, value),
	}
}

// GenerateExamples renders the examples of one argument. Base phrases are
// rendered once each; every other present category is rendered for each
// (sample value, phrase) pair. Categories absent from meta produce nothing.
func GenerateExamples(
	table string,
	meta *autocanon.CanonicalMetadata,
	samples []string,
) (map[autocanon.GrammarCategory]*ExampleSet, error) {
	sets := make(map[autocanon.GrammarCategory]*ExampleSet)

	for _, c := range autocanon.PhraseCategories {
		if meta.Has(c) {
			sets[c] = &ExampleSet{Examples: []Example{}}
		}
	}

	if set, ok := sets[autocanon.CategoryBase]; ok {
		for _, phrase := range meta.Get(autocanon.CategoryBase) {
			tokens, err := Render(autocanon.CategoryBase, table, phrase, "", "")
			if err != nil {
				return nil, err
			}

			set.Examples = append(set.Examples, newExample(tokens, phrase, "", ""))
		}
	}

	for _, value := range samples {
		for _, c := range autocanon.PhraseCategories {
			set, ok := sets[c]
			if !ok || c == autocanon.CategoryBase {
				continue
			}

			for _, phrase := range meta.Get(c) {
				prefix, suffix := SplitCanonical(phrase)

				tokens, err := Render(c, table, prefix, value, suffix)
				if err != nil {
					return nil, err
				}

				set.Examples = append(set.Examples, newExample(tokens, prefix, value, suffix))
			}
		}
	}

	return sets, nil
}
