package autocanon_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rlch/autocanon"
)

func TestCanonicalMetadata_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	input := `
base: [cuisine, food type]
avp: "serves # cuisine"
npp: []
apv: true
nni: ["# food"]
`

	var meta autocanon.CanonicalMetadata
	require.NoError(t, yaml.Unmarshal([]byte(input), &meta))

	want := map[autocanon.GrammarCategory][]string{
		autocanon.CategoryBase: {"cuisine", "food type"},
		autocanon.CategoryAVP:  {"serves # cuisine"},
		autocanon.CategoryNPP:  {},
		autocanon.CategoryNNI:  {"# food"},
	}

	if diff := cmp.Diff(want, meta.Phrases); diff != "" {
		t.Errorf("phrases mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, meta.Adjective)
	assert.True(t, meta.Has(autocanon.CategoryNPP), "empty list still counts as present")
	assert.False(t, meta.Has(autocanon.CategoryPVP))
}

func TestCanonicalMetadata_UnmarshalYAML_UnknownCategory(t *testing.T) {
	t.Parallel()

	var meta autocanon.CanonicalMetadata
	err := yaml.Unmarshal([]byte("base: [price]\nproperty: [cost]\n"), &meta)
	require.ErrorIs(t, err, autocanon.ErrUnknownCategory)
}

func TestCanonicalMetadata_UnmarshalYAML_BadAdjective(t *testing.T) {
	t.Parallel()

	var meta autocanon.CanonicalMetadata
	err := yaml.Unmarshal([]byte("apv: [cheap]\n"), &meta)
	require.Error(t, err)
}

func TestCanonicalMetadata_MarshalYAML_Order(t *testing.T) {
	t.Parallel()

	meta := autocanon.NewCanonicalMetadata()
	meta.Set(autocanon.CategoryNPI, []string{"# restaurant"})
	meta.Set(autocanon.CategoryBase, []string{"cuisine"})
	meta.Adjective = true

	out, err := yaml.Marshal(meta)
	require.NoError(t, err)

	text := string(out)
	base := strings.Index(text, "base:")
	npi := strings.Index(text, "npi:")
	apv := strings.Index(text, "apv: true")

	require.True(t, base >= 0 && npi >= 0 && apv >= 0, text)
	assert.Less(t, base, npi)
	assert.Less(t, npi, apv)

	var reloaded autocanon.CanonicalMetadata
	require.NoError(t, yaml.Unmarshal(out, &reloaded))
	assert.Equal(t, []string{"# restaurant"}, reloaded.Get(autocanon.CategoryNPI))
}

func TestCanonicalMetadata_Append(t *testing.T) {
	t.Parallel()

	meta := autocanon.NewCanonicalMetadata()

	assert.True(t, meta.Append(autocanon.CategoryAVP, "serves # food"))
	assert.False(t, meta.Append(autocanon.CategoryAVP, "serves # food"))
	assert.True(t, meta.Append(autocanon.CategoryAVP, "offers # food"))

	assert.Equal(t, []string{"serves # food", "offers # food"}, meta.Get(autocanon.CategoryAVP))
}

func TestCanonicalMetadata_Clone(t *testing.T) {
	t.Parallel()

	meta := autocanon.NewCanonicalMetadata()
	meta.Set(autocanon.CategoryBase, []string{"price"})

	clone := meta.Clone()
	clone.Append(autocanon.CategoryBase, "cost")
	clone.Adjective = true

	assert.Equal(t, []string{"price"}, meta.Get(autocanon.CategoryBase))
	assert.False(t, meta.Adjective)

	var nilMeta *autocanon.CanonicalMetadata
	assert.Nil(t, nilMeta.Clone())
}

func TestCanonicalMetadata_Categories(t *testing.T) {
	t.Parallel()

	meta := autocanon.NewCanonicalMetadata()
	meta.Set(autocanon.CategoryPVP, []string{"rated #"})
	meta.Set(autocanon.CategoryBase, []string{"rating"})
	meta.Adjective = true

	assert.Equal(t, []autocanon.GrammarCategory{autocanon.CategoryBase, autocanon.CategoryPVP}, meta.Categories())
}

func TestCanonicalMetadata_UnmarshalYAML_NullCategory(t *testing.T) {
	t.Parallel()

	var meta autocanon.CanonicalMetadata
	require.NoError(t, yaml.Unmarshal([]byte("base: [rating]\nnpp:\npvp: ~\napv: false\n"), &meta))

	assert.Equal(t, []string{"rating"}, meta.Get(autocanon.CategoryBase))
	assert.False(t, meta.Has(autocanon.CategoryNPP), "a key without a value is absent")
	assert.False(t, meta.Has(autocanon.CategoryPVP))
	assert.False(t, meta.Adjective)
	assert.Equal(t, []autocanon.GrammarCategory{autocanon.CategoryBase}, meta.Categories())
}

func TestWriteClass_NullCategoryAndFalseAdjective(t *testing.T) {
	t.Parallel()

	input := `kind: com.example
queries:
  - name: hotel
    args:
      - name: rating
        type: Number
        canonical: {base: [rating], npp: , apv: false}
`

	class, err := autocanon.ParseClass([]byte(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, autocanon.WriteClass(&buf, class))

	out := buf.String()
	assert.NotContains(t, out, "npp")
	assert.NotContains(t, out, `""`)
	assert.NotContains(t, out, "apv", "a false adjective flag is the default and not written")
	assert.Contains(t, out, "rating")
}
