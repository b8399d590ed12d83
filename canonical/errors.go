package canonical

import "errors"

// Sentinel errors for the canonical package.
var (
	// ErrInvalidCategory is returned when a template is requested for a category that has none.
	ErrInvalidCategory = errors.New("canonical: invalid grammar category")

	// ErrNoScorer is returned when a run is started without a scorer.
	ErrNoScorer = errors.New("canonical: no scorer configured")

	// ErrInvalidFilter is returned when a skip expression does not compile.
	ErrInvalidFilter = errors.New("canonical: invalid skip expression")
)
