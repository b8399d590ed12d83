package autocanon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/autocanon"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"base", "npp", "avp", "pvp", "npi", "nni", "npv", "apv"} {
		c, err := autocanon.ParseCategory(s)
		require.NoError(t, err)
		assert.Equal(t, autocanon.GrammarCategory(s), c)
	}

	_, err := autocanon.ParseCategory("default")
	assert.ErrorIs(t, err, autocanon.ErrUnknownCategory)

	_, err = autocanon.ParseCategory("property")
	assert.ErrorIs(t, err, autocanon.ErrUnknownCategory)
}

func TestGrammarCategory_IsReserved(t *testing.T) {
	t.Parallel()

	for _, c := range autocanon.PhraseCategories {
		assert.False(t, c.IsReserved(), c)
	}

	assert.True(t, autocanon.CategoryNNI.IsReserved())
	assert.True(t, autocanon.CategoryNPV.IsReserved())
	assert.True(t, autocanon.CategoryAPV.IsReserved())
}
