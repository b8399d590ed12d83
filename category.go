package autocanon

import "fmt"

// GrammarCategory is the syntactic role a canonical phrase plays when it is
// combined with a table name and a value.
type GrammarCategory string

// Grammar categories.
const (
	CategoryBase GrammarCategory = "base" // noun naming the property: "price"
	CategoryNPP  GrammarCategory = "npp"  // noun phrase property: "with # stars"
	CategoryAVP  GrammarCategory = "avp"  // active verb phrase: "serves # food"
	CategoryPVP  GrammarCategory = "pvp"  // passive verb phrase: "rated #"
	CategoryNPI  GrammarCategory = "npi"  // noun phrase identity: "# restaurant"

	// Reserved categories. They may appear in metadata but are never rendered.
	CategoryNNI GrammarCategory = "nni"
	CategoryNPV GrammarCategory = "npv"
	CategoryAPV GrammarCategory = "apv" // adjective flag, boolean
)

// PhraseCategories are the categories that produce examples, in rendering order.
var PhraseCategories = []GrammarCategory{
	CategoryBase,
	CategoryNPP,
	CategoryAVP,
	CategoryPVP,
	CategoryNPI,
}

// IsValid reports whether c is one of the enumerated categories.
func (c GrammarCategory) IsValid() bool {
	switch c {
	case CategoryBase, CategoryNPP, CategoryAVP, CategoryPVP, CategoryNPI,
		CategoryNNI, CategoryNPV, CategoryAPV:
		return true
	}

	return false
}

// IsReserved reports whether c is accepted in metadata but has no template.
func (c GrammarCategory) IsReserved() bool {
	return c == CategoryNNI || c == CategoryNPV || c == CategoryAPV
}

// ParseCategory converts a category key into a GrammarCategory.
func ParseCategory(s string) (GrammarCategory, error) {
	c := GrammarCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}

	return c, nil
}
