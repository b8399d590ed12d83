package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/autocanon"
	"github.com/rlch/autocanon/canonical"
)

const testClass = `kind: com.yelp
queries:
  - name: restaurant
    args:
      - name: servesCuisine
        type: Entity(com.yelp:restaurant_cuisine)
        canonical:
          avp: ["serves # food"]
      - name: rating
        type: Number
`

const testConstants = "com.yelp:restaurant_cuisine\titalian\tItalian\ncom.yelp:restaurant_cuisine\tthai\tThai\n"

// TestHelperScorer is not a real test. It stands in for the scoring process:
// every avp category gets one candidate proposed by all of its examples.
func TestHelperScorer(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	var corpus canonical.Corpus
	if err := json.NewDecoder(os.Stdin).Decode(&corpus); err != nil {
		os.Exit(2)
	}

	result := canonical.Result{
		Synonyms:   map[string]map[string]map[autocanon.GrammarCategory]*canonical.CategoryResult{},
		Adjectives: []string{"restaurant.rating"},
	}

	for q, args := range corpus.Examples {
		result.Synonyms[q] = map[string]map[autocanon.GrammarCategory]*canonical.CategoryResult{}

		for a, cats := range args {
			result.Synonyms[q][a] = map[autocanon.GrammarCategory]*canonical.CategoryResult{}

			for c, set := range cats {
				if c != autocanon.CategoryAVP {
					continue
				}

				examples := make([]canonical.Example, len(set.Examples))
				for i, ex := range set.Examples {
					ex.Candidates = []string{"offers # food"}
					examples[i] = ex
				}

				result.Synonyms[q][a][c] = &canonical.CategoryResult{
					Candidates: map[string]int{"offers # food": len(examples)},
					Examples:   examples,
				}
			}
		}
	}

	_ = json.NewEncoder(os.Stdout).Encode(result)
	os.Exit(0)
}

func writeFixtures(t *testing.T) (dir, classPath, constantsPath string) {
	t.Helper()

	dir = t.TempDir()
	classPath = filepath.Join(dir, "com.yelp.class.yaml")
	constantsPath = filepath.Join(dir, "constants.tsv")

	require.NoError(t, os.WriteFile(classPath, []byte(testClass), 0o600))
	require.NoError(t, os.WriteFile(constantsPath, []byte(testConstants), 0o600))

	return dir, classPath, constantsPath
}

func TestExamplesCommand(t *testing.T) {
	dir, classPath, constantsPath := writeFixtures(t)
	out := filepath.Join(dir, "corpus.json")

	err := newApp().Run(context.Background(), []string{
		"autocanon", "examples",
		"--constants", constantsPath,
		"--out", out,
		classPath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var corpus canonical.Corpus
	require.NoError(t, json.Unmarshal(data, &corpus))

	avp := corpus.Examples["restaurant"]["servesCuisine"][autocanon.CategoryAVP]
	require.NotNil(t, avp)
	assert.Len(t, avp.Examples, 2)
	assert.Equal(t, "restaurant", corpus.Paths["restaurant"].Canonical)
}

func TestGenerateCommand(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")

	dir, classPath, constantsPath := writeFixtures(t)
	outDir := filepath.Join(dir, "out")

	err := newApp().Run(context.Background(), []string{
		"autocanon", "generate",
		"--constants", constantsPath,
		"--scorer=" + os.Args[0],
		"--scorer=-test.run=TestHelperScorer",
		"--timeout", (time.Minute).String(),
		"--no-progress",
		"--out", outDir,
		classPath,
	})
	require.NoError(t, err)

	class, err := autocanon.LoadClassFile(filepath.Join(outDir, "com.yelp.class.yaml"))
	require.NoError(t, err)

	cuisine := class.Query("restaurant").Argument("servesCuisine").Canonical
	assert.Equal(t, []string{"serves # food", "offers # food"}, cuisine.Get(autocanon.CategoryAVP))
	assert.Equal(t, []string{"restaurant cuisine"}, cuisine.Get(autocanon.CategoryNPP))
	assert.True(t, class.Query("restaurant").Argument("rating").Canonical.Adjective)

	original, err := os.ReadFile(classPath)
	require.NoError(t, err)
	assert.Equal(t, testClass, string(original), "input is left alone without --in-place")
}

func TestGenerateCommand_OutputConflict(t *testing.T) {
	dir, classPath, _ := writeFixtures(t)
	second := filepath.Join(dir, "other.class.yaml")
	require.NoError(t, os.WriteFile(second, []byte(strings.Replace(testClass, "com.yelp", "com.other", 1)), 0o600))

	err := newApp().Run(context.Background(), []string{"autocanon", "generate", classPath, second})
	require.ErrorIs(t, err, ErrOutputConflict)
}

func TestGenerateCommand_MaskConflict(t *testing.T) {
	_, classPath, _ := writeFixtures(t)

	err := newApp().Run(context.Background(), []string{"autocanon", "generate", "--mask", "--no-mask", classPath})
	require.ErrorIs(t, err, autocanon.ErrInvalidConfig)
}

func TestDiscoverClassFiles(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.class.yaml", "nested/b.class.yml", "config.yaml", "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("kind: x\n"), 0o600))
	}

	files, err := discoverClassFiles([]string{dir})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
	}

	assert.ElementsMatch(t, []string{"a.class.yaml", "nested/b.class.yml"}, names)

	files, err = discoverClassFiles([]string{filepath.Join(dir, "config.yaml")})
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = discoverClassFiles([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	report := &canonical.Report{
		Examples: 12,
		Additions: []canonical.Addition{{
			Ref:       canonical.ArgRef{Query: "restaurant", Argument: "servesCuisine"},
			Category:  autocanon.CategoryAVP,
			Phrase:    "offers # food",
			Count:     6,
			Threshold: 5,
		}},
		Adjectives: []canonical.ArgRef{{Query: "restaurant", Argument: "rating"}},
	}

	out := renderReport("com.yelp", report)

	assert.Contains(t, out, "com.yelp: 12 examples, 1 phrases added, 1 adjectives")
	assert.Contains(t, out, "restaurant.servesCuisine")
	assert.Contains(t, out, "offers # food")
	assert.Contains(t, out, fmt.Sprintf("(%d > %.1f)", 6, 5.0))
	assert.Contains(t, out, "restaurant.rating")

	printReport(io.Discard, "com.yelp", report)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Empty(t, firstNonEmpty("", ""))
}

func TestGenerateCommand_SeveralClassFiles(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")

	dir, classPath, constantsPath := writeFixtures(t)
	second := filepath.Join(dir, "other.class.yaml")
	require.NoError(t, os.WriteFile(second, []byte(strings.Replace(testClass, "com.yelp", "com.other", 1)), 0o600))

	outDir := filepath.Join(dir, "out")

	err := newApp().Run(context.Background(), []string{
		"autocanon", "generate",
		"--constants", constantsPath,
		"--scorer=" + os.Args[0],
		"--scorer=-test.run=TestHelperScorer",
		"--no-progress",
		"--out", outDir,
		classPath, second,
	})
	require.NoError(t, err)

	for _, name := range []string{"com.yelp.class.yaml", "other.class.yaml"} {
		class, err := autocanon.LoadClassFile(filepath.Join(outDir, name))
		require.NoError(t, err)

		cuisine := class.Query("restaurant").Argument("servesCuisine").Canonical
		assert.Equal(t, []string{"serves # food", "offers # food"}, cuisine.Get(autocanon.CategoryAVP), name)
	}
}
