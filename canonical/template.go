// Package canonical turns canonical annotations into masked training
// examples and folds scored candidate phrases back into the annotations.
package canonical

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rlch/autocanon"
)

// SplitCanonical splits a phrase template at its '#' delimiter.
// Without a delimiter the whole template is the prefix; a leading '#' leaves
// the prefix empty. Anything after a second '#' is dropped.
func SplitCanonical(canonical string) (prefix, suffix string) {
	switch {
	case !strings.Contains(canonical, "#"):
		return strings.TrimSpace(canonical), ""
	case strings.HasPrefix(canonical, "#"):
		return "", strings.TrimSpace(canonical[1:])
	default:
		parts := strings.Split(canonical, "#")
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
}

// Render fills the sentence template of a category and tokenizes it.
// The base category ignores value and suffix.
func Render(c autocanon.GrammarCategory, table, prefix, value, suffix string) ([]string, error) {
	var sentence string

	switch c {
	case autocanon.CategoryBase:
		sentence = fmt.Sprintf("what is the %s of the %s ?", prefix, table)
	case autocanon.CategoryNPP:
		sentence = fmt.Sprintf("show me %s with %s %s %s .", table, prefix, value, suffix)
	case autocanon.CategoryAVP:
		sentence = fmt.Sprintf("which %s %s %s %s ?", table, prefix, value, suffix)
	case autocanon.CategoryPVP:
		sentence = fmt.Sprintf("show me a %s %s %s %s .", table, prefix, value, suffix)
	case autocanon.CategoryNPI:
		sentence = fmt.Sprintf("which %s is a %s %s %s ?", table, prefix, value, suffix)
	case autocanon.CategoryNNI, autocanon.CategoryNPV, autocanon.CategoryAPV:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, c)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, c)
	}

	return Tokenize(sentence), nil
}

// Tokenize collapses whitespace runs and splits a sentence into words.
func Tokenize(sentence string) []string {
	return strings.Fields(sentence)
}

// Mask locates each word of span in tokens by its first exact match.
// Words are located independently, so a word that also occurs earlier in the
// sentence resolves to that earlier position. Missing words map to -1.
func Mask(tokens []string, span string) []int {
	words := strings.Fields(span)
	indices := make([]int, len(words))

	for i, w := range words {
		indices[i] = slices.Index(tokens, w)
	}

	return indices
}
