package autocanon

import "time"

// Pruning denominators.
const (
	// DenominatorWithCandidates counts only examples that produced at least one candidate.
	DenominatorWithCandidates = "with-candidates"

	// DenominatorAllExamples counts every example of the category.
	DenominatorAllExamples = "all-examples"
)

// Defaults.
const (
	DefaultPruning     = 0.5
	DefaultDenominator = DenominatorWithCandidates
	DefaultModel       = "bert-large-uncased"
	DefaultTimeout     = 30 * time.Minute
	DefaultThingpedia  = "https://thingpedia.stanford.edu/thingpedia"
	DefaultLocale      = "en"
)

// DefaultScorerCommand runs the scoring script with the system interpreter.
var DefaultScorerCommand = []string{"python3", "bert-canonical-generator.py"}

// DefaultSkipExpr skips arguments that carry their own annotations.
const DefaultSkipExpr = `name in ["url", "name", "description", "geo", "address.streetAddress", ` +
	`"address.addressCountry", "address.addressRegion", "address.addressLocality"]`
