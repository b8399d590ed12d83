package canonical

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/rlch/autocanon"
)

// Merger prunes scored candidates and folds the survivors into canonical metadata.
type Merger struct {
	// Pruning is the fraction of the denominator a candidate count must exceed.
	Pruning float64

	// Denominator selects what the pruning fraction is taken of.
	// Defaults to autocanon.DenominatorWithCandidates.
	Denominator string
}

// Addition records one phrase accepted into an argument's canonicals.
type Addition struct {
	Ref       ArgRef
	Category  autocanon.GrammarCategory
	Phrase    string
	Count     int
	Threshold float64
}

// Plan is the outcome of a merge before it is applied to the class.
type Plan struct {
	// Canonicals holds the new metadata of every touched argument.
	Canonicals map[ArgRef]*autocanon.CanonicalMetadata

	// Additions lists accepted phrases in class order.
	Additions []Addition

	// Adjectives lists arguments flagged as adjectival.
	Adjectives []ArgRef
}

// Threshold returns the count a candidate must strictly exceed.
func (m *Merger) Threshold(res *CategoryResult) float64 {
	return m.Pruning * float64(m.denominator(res))
}

func (m *Merger) denominator(res *CategoryResult) int {
	denominator := 0

	switch m.Denominator {
	case autocanon.DenominatorAllExamples:
		denominator = len(res.Examples)
	default:
		for _, ex := range res.Examples {
			if len(ex.Candidates) > 0 {
				denominator++
			}
		}
	}

	return denominator
}

// MergeCategory returns the phrases of one category after merging res into
// existing, and the phrases that were added. Candidates are visited by
// descending count, then alphabetically. existing is not modified.
// A result with no counted examples adds nothing.
func (m *Merger) MergeCategory(existing []string, res *CategoryResult) ([]string, []Addition) {
	merged := slices.Clone(existing)
	if m.denominator(res) == 0 {
		return merged, nil
	}

	threshold := m.Threshold(res)

	var added []Addition

	for _, phrase := range rankedCandidates(res.Candidates) {
		count := res.Candidates[phrase]
		if float64(count) <= threshold || slices.Contains(merged, phrase) {
			continue
		}

		merged = append(merged, phrase)
		added = append(added, Addition{Phrase: phrase, Count: count, Threshold: threshold})
	}

	return merged, added
}

func rankedCandidates(candidates map[string]int) []string {
	return slices.SortedFunc(maps.Keys(candidates), func(a, b string) int {
		if c := cmp.Compare(candidates[b], candidates[a]); c != 0 {
			return c
		}

		return cmp.Compare(a, b)
	})
}

// Plan computes the merged metadata for the given queries without touching
// the class. base supplies the starting metadata of each argument; arguments
// missing from base start from their current metadata in the class.
// A nil queries slice means every query of the class.
func (m *Merger) Plan(
	class *autocanon.Class,
	queries []string,
	base map[ArgRef]*autocanon.CanonicalMetadata,
	result *Result,
) (*Plan, error) {
	if queries == nil {
		queries = class.QueryNames()
	}

	plan := &Plan{Canonicals: make(map[ArgRef]*autocanon.CanonicalMetadata)}

	adjectives := make(map[ArgRef]bool, len(result.Adjectives))
	for _, s := range result.Adjectives {
		if ref, ok := ParseArgRef(s); ok {
			adjectives[ref] = true
		}
	}

	working := func(ref ArgRef, arg *autocanon.Argument) *autocanon.CanonicalMetadata {
		if meta, ok := plan.Canonicals[ref]; ok {
			return meta
		}

		meta := base[ref]
		if meta == nil {
			meta = arg.Canonical
		}

		meta = meta.Clone()
		if meta == nil {
			meta = autocanon.NewCanonicalMetadata()
		}

		plan.Canonicals[ref] = meta

		return meta
	}

	for _, qname := range queries {
		q := class.Query(qname)
		if q == nil {
			return nil, fmt.Errorf("%w: %s", autocanon.ErrUnknownQuery, qname)
		}

		synonyms := result.Synonyms[qname]
		for argName := range synonyms {
			if q.Argument(argName) == nil {
				return nil, fmt.Errorf("%w: %s.%s", autocanon.ErrUnknownArgument, qname, argName)
			}
		}

		for _, arg := range q.Args {
			ref := ArgRef{Query: qname, Argument: arg.Name}

			if _, ok := base[ref]; ok {
				working(ref, arg)
			}

			if adjectives[ref] {
				working(ref, arg).Adjective = true
				plan.Adjectives = append(plan.Adjectives, ref)
			}

			cats, ok := synonyms[arg.Name]
			if !ok {
				continue
			}

			for c := range cats {
				if _, err := autocanon.ParseCategory(string(c)); err != nil {
					return nil, fmt.Errorf("%s: %w", ref, err)
				}
			}

			meta := working(ref, arg)

			for _, c := range autocanon.PhraseCategories {
				res, ok := cats[c]
				if !ok || res == nil {
					continue
				}

				merged, added := m.MergeCategory(meta.Get(c), res)
				meta.Set(c, merged)

				for _, a := range added {
					a.Ref = ref
					a.Category = c
					plan.Additions = append(plan.Additions, a)
				}
			}
		}
	}

	return plan, nil
}

// Commit assigns the planned metadata to the class arguments.
func (p *Plan) Commit(class *autocanon.Class) error {
	for ref, meta := range p.Canonicals {
		q := class.Query(ref.Query)
		if q == nil {
			return fmt.Errorf("%w: %s", autocanon.ErrUnknownQuery, ref.Query)
		}

		arg := q.Argument(ref.Argument)
		if arg == nil {
			return fmt.Errorf("%w: %s", autocanon.ErrUnknownArgument, ref)
		}

		arg.Canonical = meta
	}

	return nil
}

// Merge plans a merge from the class's current metadata and commits it.
func (m *Merger) Merge(class *autocanon.Class, queries []string, result *Result) (*Plan, error) {
	plan, err := m.Plan(class, queries, nil, result)
	if err != nil {
		return nil, err
	}

	if err := plan.Commit(class); err != nil {
		return nil, err
	}

	return plan, nil
}
