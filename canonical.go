package autocanon

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// categoryOrder is the order categories are written back out in.
var categoryOrder = []GrammarCategory{
	CategoryBase, CategoryNPP, CategoryAVP, CategoryPVP, CategoryNPI,
	CategoryNNI, CategoryNPV, CategoryAPV,
}

// CanonicalMetadata holds the canonical phrases of an argument, keyed by
// grammar category. The apv category is a boolean flag rather than a list.
type CanonicalMetadata struct {
	// Phrases maps each phrase category to its phrase templates.
	// A phrase template may contain a single '#' separating prefix and suffix.
	Phrases map[GrammarCategory][]string

	// Adjective is the apv flag: values of the argument can be used as adjectives.
	// False is the default and is not written back.
	Adjective bool
}

// NewCanonicalMetadata creates an empty CanonicalMetadata.
func NewCanonicalMetadata() *CanonicalMetadata {
	return &CanonicalMetadata{Phrases: make(map[GrammarCategory][]string)}
}

// Has reports whether the category is present, even with an empty list.
// For apv it reports the flag itself.
func (m *CanonicalMetadata) Has(c GrammarCategory) bool {
	if m == nil {
		return false
	}

	if c == CategoryAPV {
		return m.Adjective
	}

	_, ok := m.Phrases[c]

	return ok
}

// Get returns the phrases of a category.
func (m *CanonicalMetadata) Get(c GrammarCategory) []string {
	if m == nil {
		return nil
	}

	return m.Phrases[c]
}

// Set replaces the phrases of a category.
func (m *CanonicalMetadata) Set(c GrammarCategory, phrases []string) {
	if m.Phrases == nil {
		m.Phrases = make(map[GrammarCategory][]string)
	}

	m.Phrases[c] = phrases
}

// Append adds phrase to the category unless it is already present.
// Returns true if the phrase was added.
func (m *CanonicalMetadata) Append(c GrammarCategory, phrase string) bool {
	if slices.Contains(m.Phrases[c], phrase) {
		return false
	}

	m.Set(c, append(m.Phrases[c], phrase))

	return true
}

// Categories returns the present phrase categories in canonical order.
func (m *CanonicalMetadata) Categories() []GrammarCategory {
	var out []GrammarCategory

	for _, c := range categoryOrder {
		if c == CategoryAPV {
			continue
		}

		if m.Has(c) {
			out = append(out, c)
		}
	}

	return out
}

// Clone returns a deep copy.
func (m *CanonicalMetadata) Clone() *CanonicalMetadata {
	if m == nil {
		return nil
	}

	clone := &CanonicalMetadata{
		Phrases:   make(map[GrammarCategory][]string, len(m.Phrases)),
		Adjective: m.Adjective,
	}

	for c, phrases := range m.Phrases {
		clone.Phrases[c] = slices.Clone(phrases)
	}

	return clone
}

// UnmarshalYAML decodes a mapping of category to phrase list.
// Unknown categories are rejected.
func (m *CanonicalMetadata) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: canonical metadata must be a mapping", node.Line)
	}

	*m = CanonicalMetadata{Phrases: make(map[GrammarCategory][]string)}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		c, err := ParseCategory(keyNode.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}

		// A key without a value leaves the category absent.
		if valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!null" {
			continue
		}

		if c == CategoryAPV {
			if err := valueNode.Decode(&m.Adjective); err != nil {
				return fmt.Errorf("line %d: apv must be a boolean: %w", valueNode.Line, err)
			}

			continue
		}

		var phrases []string

		switch valueNode.Kind {
		case yaml.ScalarNode:
			phrases = []string{valueNode.Value}
		default:
			if err := valueNode.Decode(&phrases); err != nil {
				return fmt.Errorf("line %d: category %s: %w", valueNode.Line, c, err)
			}
		}

		if phrases == nil {
			phrases = []string{}
		}

		m.Phrases[c] = phrases
	}

	return nil
}

// MarshalYAML encodes the metadata with categories in canonical order.
// apv is only written when set.
func (m *CanonicalMetadata) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, c := range categoryOrder {
		if !m.Has(c) {
			continue
		}

		value := &yaml.Node{}

		var err error
		if c == CategoryAPV {
			err = value.Encode(true)
		} else {
			err = value.Encode(m.Phrases[c])
		}

		if err != nil {
			return nil, err
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(c)},
			value,
		)
	}

	return node, nil
}
