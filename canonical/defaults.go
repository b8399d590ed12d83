package canonical

import (
	"slices"
	"strings"

	"github.com/rlch/autocanon"
)

// EntityTypeCounts counts the arguments of q per entity type, looking through arrays.
func EntityTypeCounts(q *autocanon.Query) map[string]int {
	counts := make(map[string]int)

	for _, arg := range q.Args {
		if t := arg.Type.EntityType(); t != "" {
			counts[t]++
		}
	}

	return counts
}

// EntityPhrase derives a phrase from an entity type name:
// "com.yelp:restaurant_cuisine" -> "restaurant cuisine".
func EntityPhrase(entityType string) string {
	_, local, ok := strings.Cut(entityType, ":")
	if !ok {
		local = entityType
	}

	return strings.TrimSpace(strings.ToLower(strings.ReplaceAll(local, "_", " ")))
}

// WithDefaults returns a copy of meta with missing categories filled in.
// A missing npp is copied from base. If npp is still missing and the
// argument's entity type is unique within the query, npp and base are
// derived from the entity type. An authored npp is never replaced.
// Returns nil when meta is nil.
func WithDefaults(meta *autocanon.CanonicalMetadata, t *autocanon.Type, counts map[string]int) *autocanon.CanonicalMetadata {
	if meta == nil {
		return nil
	}

	out := meta.Clone()

	if out.Has(autocanon.CategoryBase) && !out.Has(autocanon.CategoryNPP) {
		out.Set(autocanon.CategoryNPP, slices.Clone(out.Get(autocanon.CategoryBase)))
	}

	if out.Has(autocanon.CategoryNPP) {
		return out
	}

	entityType := t.EntityType()
	if entityType == "" || counts[entityType] != 1 {
		return out
	}

	phrase := EntityPhrase(entityType)
	out.Set(autocanon.CategoryNPP, []string{phrase})
	out.Set(autocanon.CategoryBase, []string{phrase})

	return out
}
