package canonical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/autocanon"
)

func TestRender_Base(t *testing.T) {
	t.Parallel()

	tokens, err := Render(autocanon.CategoryBase, "restaurant", "price", "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"what", "is", "the", "price", "of", "the", "restaurant", "?"}, tokens)
	assert.Equal(t, []int{3}, Mask(tokens, "price"))
}

func TestRender_NPP(t *testing.T) {
	t.Parallel()

	tokens, err := Render(autocanon.CategoryNPP, "hotel", "with", "5 stars", "")
	require.NoError(t, err)

	assert.Equal(t, "show me hotel with with 5 stars .", joinTokens(tokens))
	assert.Equal(t, []int{5, 6}, Mask(tokens, "5 stars"))
	assert.Empty(t, Mask(tokens, ""))
}

func TestRender_Categories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category autocanon.GrammarCategory
		want     string
	}{
		{autocanon.CategoryAVP, "which restaurant serves italian food ?"},
		{autocanon.CategoryPVP, "show me a restaurant serves italian food ."},
		{autocanon.CategoryNPI, "which restaurant is a serves italian food ?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			t.Parallel()

			tokens, err := Render(tt.category, "restaurant", "serves", "italian", "food")
			require.NoError(t, err)
			assert.Equal(t, tt.want, joinTokens(tokens))
		})
	}
}

func TestRender_InvalidCategory(t *testing.T) {
	t.Parallel()

	for _, c := range []autocanon.GrammarCategory{
		autocanon.CategoryNNI, autocanon.CategoryNPV, autocanon.CategoryAPV, "bogus",
	} {
		_, err := Render(c, "restaurant", "x", "y", "z")
		assert.ErrorIs(t, err, ErrInvalidCategory, c)
	}
}

// A span word that also occurs earlier in the sentence is masked at its first
// occurrence, not at the position it was rendered in.
func TestMask_FirstOccurrence(t *testing.T) {
	t.Parallel()

	tokens, err := Render(autocanon.CategoryNPP, "hotel", "with", "5 stars", "")
	require.NoError(t, err)

	// The prefix was rendered at index 4 but resolves to the table-side "with" at 3.
	assert.Equal(t, []int{3}, Mask(tokens, "with"))

	// A value word equal to the table name resolves to the table.
	tokens, err = Render(autocanon.CategoryAVP, "restaurant", "serves", "restaurant food", "")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, Mask(tokens, "restaurant food"))

	tokens, err = Render(autocanon.CategoryBase, "restaurant", "the price", "", "")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, Mask(tokens, "the price"))
}

func TestMask_MissingWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{-1, 1}, Mask([]string{"a", "b"}, "z b"))
}

func TestTokenize_CollapsesWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"show", "me", "a", "b", "."}, Tokenize("show  me a \t b  ."))
}

func TestSplitCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input          string
		prefix, suffix string
	}{
		{"rating", "rating", ""},
		{"serves # food", "serves", "food"},
		{"# restaurant", "", "restaurant"},
		{"rated #", "rated", ""},
		{"a # b # c", "a", "b"},
		{"  with  #  stars ", "with", "stars"},
	}

	for _, tt := range tests {
		prefix, suffix := SplitCanonical(tt.input)
		assert.Equal(t, tt.prefix, prefix, "prefix of %q", tt.input)
		assert.Equal(t, tt.suffix, suffix, "suffix of %q", tt.input)
	}
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
