package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rlch/autocanon"
	"github.com/rlch/autocanon/canonical"
)

func TestDebug_Dumps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := &canonical.Result{
		Synonyms:   map[string]map[string]map[autocanon.GrammarCategory]*canonical.CategoryResult{},
		Adjectives: []string{"restaurant.servesCuisine"},
	}

	d := &Debug{
		Scorer: canonical.ScorerFunc(func(context.Context, *canonical.Corpus) (*canonical.Result, error) {
			return want, nil
		}),
		Dir:    dir,
		Logger: zaptest.NewLogger(t),
	}

	got, err := d.Score(context.Background(), testCorpus())
	require.NoError(t, err)
	assert.Same(t, want, got)

	var corpus canonical.Corpus
	data, err := os.ReadFile(filepath.Join(dir, RequestDumpName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &corpus))
	assert.Equal(t, "restaurant", corpus.Paths["restaurant"].Canonical)

	var result canonical.Result
	data, err = os.ReadFile(filepath.Join(dir, ResponseDumpName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, want.Adjectives, result.Adjectives)
}

func TestDebug_ScorerError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	boom := errors.New("boom")

	d := &Debug{
		Scorer: canonical.ScorerFunc(func(context.Context, *canonical.Corpus) (*canonical.Result, error) {
			return nil, boom
		}),
		Dir: dir,
	}

	_, err := d.Score(context.Background(), testCorpus())
	require.ErrorIs(t, err, boom)

	assert.FileExists(t, filepath.Join(dir, RequestDumpName))
	assert.NoFileExists(t, filepath.Join(dir, ResponseDumpName))
}

func TestDebug_UnwritableDir(t *testing.T) {
	t.Parallel()

	d := &Debug{
		Scorer: canonical.ScorerFunc(func(context.Context, *canonical.Corpus) (*canonical.Result, error) {
			return &canonical.Result{}, nil
		}),
		Dir: filepath.Join(t.TempDir(), "missing", "dir"),
	}

	_, err := d.Score(context.Background(), testCorpus())
	require.NoError(t, err, "dump failures do not fail the call")
}
