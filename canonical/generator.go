package canonical

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlch/autocanon"
	"github.com/rlch/autocanon/dataset"
)

// Generator runs canonical generation for a class: it builds the example
// corpus and scores it in a single call before merging the survivors.
type Generator struct {
	logger  *zap.Logger
	scorer  Scorer
	index   *dataset.Index
	store   dataset.Store
	filter  *Filter
	merger  *Merger
	queries []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithScorer sets the candidate scorer.
func WithScorer(s Scorer) Option {
	return func(g *Generator) {
		g.scorer = s
	}
}

// WithIndex sets the parameter dataset index.
func WithIndex(idx *dataset.Index) Option {
	return func(g *Generator) {
		g.index = idx
	}
}

// WithConstants sets the sample constants store.
func WithConstants(store dataset.Store) Option {
	return func(g *Generator) {
		g.store = store
	}
}

// WithFilter sets the argument skip filter.
func WithFilter(f *Filter) Option {
	return func(g *Generator) {
		g.filter = f
	}
}

// WithMerger sets the pruning policy.
func WithMerger(m *Merger) Option {
	return func(g *Generator) {
		g.merger = m
	}
}

// WithQueries restricts the run to the named queries.
func WithQueries(names ...string) Option {
	return func(g *Generator) {
		g.queries = names
	}
}

// New creates a Generator with the given options.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger: zap.NewNop(),
		merger: &Merger{Pruning: autocanon.DefaultPruning, Denominator: autocanon.DefaultDenominator},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Draft is a corpus together with the metadata it was rendered from.
type Draft struct {
	Corpus *Corpus

	// Canonicals holds each annotated argument's metadata after defaulting.
	Canonicals map[ArgRef]*autocanon.CanonicalMetadata

	// SampleSizes records how many sample values each argument was rendered with.
	SampleSizes map[ArgRef]int
}

// Report summarizes a completed run.
type Report struct {
	RunID       string
	Queries     []string
	Examples    int
	SampleSizes map[ArgRef]int
	Additions   []Addition
	Adjectives  []ArgRef
	Elapsed     time.Duration
}

// selectQueries resolves the configured query names against the class.
func (g *Generator) selectQueries(class *autocanon.Class) ([]string, error) {
	if len(g.queries) == 0 {
		return class.QueryNames(), nil
	}

	for _, name := range g.queries {
		if class.Query(name) == nil {
			return nil, fmt.Errorf("%w: %s", autocanon.ErrUnknownQuery, name)
		}
	}

	return g.queries, nil
}

// Build renders the corpus for the selected queries. The class is not modified.
func (g *Generator) Build(class *autocanon.Class) (*Draft, error) {
	queries, err := g.selectQueries(class)
	if err != nil {
		return nil, err
	}

	return g.build(g.logger, class, queries)
}

func (g *Generator) build(logger *zap.Logger, class *autocanon.Class, queries []string) (*Draft, error) {
	draft := &Draft{
		Corpus:      NewCorpus(),
		Canonicals:  make(map[ArgRef]*autocanon.CanonicalMetadata),
		SampleSizes: make(map[ArgRef]int),
	}

	retriever := dataset.NewRetriever(class.Kind, g.store)

	for _, qname := range queries {
		q := class.Query(qname)
		table := q.CanonicalName()
		counts := EntityTypeCounts(q)

		examples := make(map[string]map[autocanon.GrammarCategory]*ExampleSet)
		paths := &QueryPaths{Canonical: table, Params: make(map[string]string)}
		draft.Corpus.Examples[qname] = examples
		draft.Corpus.Paths[qname] = paths

		for _, arg := range q.Args {
			ref := ArgRef{Query: qname, Argument: arg.Name}

			skip, err := g.filter.Skip(class.Kind, qname, arg)
			if err != nil {
				return nil, err
			}

			if skip {
				logger.Debug("skipping argument", zap.Stringer("arg", ref))
				continue
			}

			if p, ok := g.index.Resolve(dataset.PathKeys(class.Kind, qname, arg)...); ok {
				paths.Params[arg.Name] = p
			}

			if arg.Canonical == nil {
				continue
			}

			meta := WithDefaults(arg.Canonical, arg.Type, counts)
			draft.Canonicals[ref] = meta

			samples, ok := retriever.Retrieve(qname, arg)
			if !ok {
				logger.Debug("no samples", zap.Stringer("arg", ref))
				continue
			}

			draft.SampleSizes[ref] = len(samples)

			sets, err := GenerateExamples(table, meta, samples)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ref, err)
			}

			examples[arg.Name] = sets

			logger.Debug("generated examples",
				zap.Stringer("arg", ref),
				zap.Int("samples", len(samples)),
				zap.Int("categories", len(sets)),
			)
		}
	}

	return draft, nil
}

// Run generates, scores and merges canonicals for the class. On success the
// class arguments carry the merged metadata. On any error the class is left
// untouched.
func (g *Generator) Run(ctx context.Context, class *autocanon.Class) (*Report, error) {
	if g.scorer == nil {
		return nil, ErrNoScorer
	}

	queries, err := g.selectQueries(class)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString(), Queries: queries}
	logger := g.logger.With(zap.String("run", report.RunID), zap.String("class", class.Kind))

	if g.index != nil {
		logger.Info("dataset index loaded", zap.Int("entries", g.index.Len()))

		if incomplete := g.index.Incomplete(); len(incomplete) > 0 {
			logger.Warn("dataset index rows without a path", zap.Strings("keys", incomplete))
		}
	}

	draft, err := g.build(logger, class, queries)
	if err != nil {
		return nil, err
	}

	report.Examples = draft.Corpus.Size()
	report.SampleSizes = draft.SampleSizes

	logger.Info("corpus built",
		zap.Int("queries", len(queries)),
		zap.Int("arguments", len(draft.Canonicals)),
		zap.Int("examples", report.Examples),
	)

	start := time.Now()

	result, err := g.scorer.Score(ctx, draft.Corpus)
	if err != nil {
		return nil, fmt.Errorf("scoring corpus: %w", err)
	}

	report.Elapsed = time.Since(start)
	logger.Info("corpus scored", zap.Duration("elapsed", report.Elapsed))

	plan, err := g.merger.Plan(class, queries, draft.Canonicals, result)
	if err != nil {
		return nil, fmt.Errorf("merging candidates: %w", err)
	}

	if err := plan.Commit(class); err != nil {
		return nil, err
	}

	report.Additions = plan.Additions
	report.Adjectives = plan.Adjectives

	logger.Info("canonicals merged",
		zap.Int("added", len(plan.Additions)),
		zap.Int("adjectives", len(plan.Adjectives)),
	)

	return report, nil
}
