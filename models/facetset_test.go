package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmptySet(t *testing.T) *FacetSet {
	t.Helper()
	fs, err := NewFacetSet(nil)
	require.NoError(t, err)
	return fs
}

func TestFacetSet_Type(t *testing.T) {
	fs := newEmptySet(t)
	assert.Equal(t, ComponentFacetSet, fs.Type())
}

func TestFacetSet_AddFacet(t *testing.T) {
	fs := newEmptySet(t)
	f1 := NewFieldFacet("category", "category")
	f2 := NewQueryFacet("cheap", "price:[* TO 10]")

	require.NoError(t, fs.AddFacet(f1))
	require.NoError(t, fs.AddFacet(f2))

	facets := fs.FacetMap()
	assert.Len(t, facets, 2)
	assert.Same(t, f1, facets["category"])
	assert.Same(t, f2, facets["cheap"])
	assert.Equal(t, []string{"category", "cheap"}, fs.Keys())
}

func TestFacetSet_AddFacet_MissingKey(t *testing.T) {
	fs := newEmptySet(t)
	require.NoError(t, fs.AddFacet(NewFieldFacet("a", "a")))

	err := fs.AddFacet(NewFieldFacet("", "category"))
	assert.ErrorIs(t, err, ErrMissingKey)

	err = fs.AddFacet(nil)
	assert.ErrorIs(t, err, ErrMissingKey)

	assert.Equal(t, []string{"a"}, fs.Keys())
}

func TestFacetSet_AddFacet_TypedNil(t *testing.T) {
	fs := newEmptySet(t)

	for _, f := range []Facet{
		(*FieldFacet)(nil),
		(*QueryFacet)(nil),
		(*MultiQueryFacet)(nil),
		(*RangeFacet)(nil),
		(*PivotFacet)(nil),
	} {
		assert.ErrorIs(t, fs.AddFacet(f), ErrMissingKey, "%T", f)
	}
	assert.Zero(t, fs.Len())
}

func TestFacetSet_ZeroValue(t *testing.T) {
	var fs FacetSet
	require.NoError(t, fs.AddFacet(NewFieldFacet("a", "a")))
	assert.Equal(t, []string{"a"}, fs.Keys())
}

func TestFacetSet_AddFacet_DuplicateKey(t *testing.T) {
	fs := newEmptySet(t)
	original := NewFieldFacet("category", "category")
	require.NoError(t, fs.AddFacet(original))

	err := fs.AddFacet(NewQueryFacet("category", "x:y"))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	got, ok := fs.Facet("category")
	require.True(t, ok)
	assert.Same(t, original, got)
	assert.Equal(t, 1, fs.Len())
}

func TestFacetSet_AddFacetConfig(t *testing.T) {
	fs := newEmptySet(t)
	require.NoError(t, fs.AddFacetConfig(FacetConfig{"type": "Field", "key": "brand", "field": "brand_s"}))

	f, ok := fs.Facet("brand")
	require.True(t, ok)
	assert.Equal(t, FacetField, f.Type())
	assert.Equal(t, "brand_s", f.(*FieldFacet).Field)
}

func TestFacetSet_AddFacetConfig_UnknownType(t *testing.T) {
	fs := newEmptySet(t)

	err := fs.AddFacetConfig(FacetConfig{"type": "bogus"})
	assert.ErrorIs(t, err, ErrUnknownFacetType)
	assert.Equal(t, 0, fs.Len())
}

func TestFacetSet_AddFacetConfig_MissingKey(t *testing.T) {
	fs := newEmptySet(t)

	err := fs.AddFacetConfig(FacetConfig{"type": "field", "field": "category"})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestFacetSet_AddFacets_DefaultsKeyToID(t *testing.T) {
	fs := newEmptySet(t)

	err := fs.AddFacets(FacetList{
		{ID: "a", Config: FacetConfig{"type": "query", "query": "x"}},
		{ID: "b", Config: FacetConfig{"type": "query", "query": "y", "key": "custom"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "custom"}, fs.Keys())
	custom, ok := fs.Facet("custom")
	require.True(t, ok)
	assert.Equal(t, "y", custom.(*QueryFacet).Query)
}

func TestFacetSet_AddFacets_DoesNotMutateConfig(t *testing.T) {
	fs := newEmptySet(t)
	cfg := FacetConfig{"type": "query", "query": "x"}

	require.NoError(t, fs.AddFacets(FacetList{{ID: "a", Config: cfg}}))
	_, hasKey := cfg["key"]
	assert.False(t, hasKey)
}

func TestFacetSet_AddFacets_MixedFacetsAndConfigs(t *testing.T) {
	fs := newEmptySet(t)
	pivot := NewPivotFacet("tree", "cat", "brand")

	err := fs.AddFacets(FacetList{
		{ID: "ignored", Facet: pivot},
		{ID: "price", Config: FacetConfig{"type": "range", "field": "price", "start": 0, "end": 100, "gap": 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tree", "price"}, fs.Keys())
}

func TestFacetSet_AddFacets_FailureLeavesSetUnchanged(t *testing.T) {
	fs := newEmptySet(t)
	require.NoError(t, fs.AddFacet(NewFieldFacet("existing", "f")))

	err := fs.AddFacets(FacetList{
		{ID: "a", Config: FacetConfig{"type": "query", "query": "x"}},
		{ID: "existing", Config: FacetConfig{"type": "query", "query": "y"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, []string{"existing"}, fs.Keys())
}

func TestFacetSet_AddFacets_DuplicateWithinList(t *testing.T) {
	fs := newEmptySet(t)

	err := fs.AddFacets(FacetList{
		{ID: "a", Config: FacetConfig{"type": "query", "query": "x", "key": "k"}},
		{ID: "b", Config: FacetConfig{"type": "query", "query": "y", "key": "k"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, 0, fs.Len())
}

func TestFacetSet_FacetMiss(t *testing.T) {
	fs := newEmptySet(t)
	f, ok := fs.Facet("nope")
	assert.False(t, ok)
	assert.Nil(t, f)
}

func TestFacetSet_FacetsIsACopy(t *testing.T) {
	fs := newEmptySet(t)
	require.NoError(t, fs.AddFacet(NewFieldFacet("a", "a")))

	m := fs.FacetMap()
	delete(m, "a")
	list := fs.Facets()
	list[0] = nil

	_, ok := fs.Facet("a")
	assert.True(t, ok)
	assert.NotNil(t, fs.Facets()[0])
}

func TestFacetSet_RemoveFacet(t *testing.T) {
	fs := newEmptySet(t)
	require.NoError(t, fs.AddFacet(NewFieldFacet("a", "a")))
	require.NoError(t, fs.AddFacet(NewFieldFacet("b", "b")))
	require.NoError(t, fs.AddFacet(NewFieldFacet("c", "c")))

	fs.RemoveFacet("b")
	assert.Equal(t, []string{"a", "c"}, fs.Keys())

	fs.RemoveFacet("missing")
	assert.Equal(t, []string{"a", "c"}, fs.Keys())

	// a removed key can be reused
	require.NoError(t, fs.AddFacet(NewQueryFacet("b", "q")))
	assert.Equal(t, []string{"a", "c", "b"}, fs.Keys())
}

func TestFacetSet_ClearFacets(t *testing.T) {
	fs := newEmptySet(t)
	require.NoError(t, fs.AddFacet(NewFieldFacet("a", "a")))
	require.NoError(t, fs.AddFacet(NewFieldFacet("b", "b")))

	fs.ClearFacets()
	assert.Empty(t, fs.Facets())
	assert.Empty(t, fs.FacetMap())

	fs.ClearFacets()
	assert.Equal(t, 0, fs.Len())
}

func TestFacetSet_SetFacets(t *testing.T) {
	list := FacetList{
		{ID: "x", Config: FacetConfig{"type": "field", "field": "fx"}},
		{ID: "y", Config: FacetConfig{"type": "query", "query": "q"}},
	}

	replaced := newEmptySet(t)
	require.NoError(t, replaced.AddFacet(NewFieldFacet("old", "old")))
	require.NoError(t, replaced.SetFacets(list))

	manual := newEmptySet(t)
	require.NoError(t, manual.AddFacet(NewFieldFacet("old", "old")))
	manual.ClearFacets()
	require.NoError(t, manual.AddFacets(list))

	assert.Equal(t, manual.Keys(), replaced.Keys())
	assert.Equal(t, []string{"x", "y"}, replaced.Keys())
}

func TestFacetSet_SetFacets_FailureKeepsCurrentFacets(t *testing.T) {
	fs := newEmptySet(t)
	require.NoError(t, fs.AddFacet(NewFieldFacet("old", "old")))

	err := fs.SetFacets(FacetList{
		{ID: "x", Config: FacetConfig{"type": "field", "field": "fx"}},
		{ID: "y", Config: FacetConfig{"type": "bogus"}},
	})
	assert.ErrorIs(t, err, ErrUnknownFacetType)
	assert.Equal(t, []string{"old"}, fs.Keys())
}

func TestFacetSet_Options(t *testing.T) {
	fs := newEmptySet(t)

	_, ok := fs.Prefix()
	assert.False(t, ok)
	_, ok = fs.Sort()
	assert.False(t, ok)
	_, ok = fs.Limit()
	assert.False(t, ok)
	_, ok = fs.MinCount()
	assert.False(t, ok)
	_, ok = fs.Missing()
	assert.False(t, ok)

	fs.SetPrefix("ab")
	fs.SetSort(SortIndex)
	fs.SetLimit(25)
	fs.SetMinCount(0)
	fs.SetMissing(false)

	prefix, ok := fs.Prefix()
	assert.True(t, ok)
	assert.Equal(t, "ab", prefix)
	sort, ok := fs.Sort()
	assert.True(t, ok)
	assert.Equal(t, SortIndex, sort)
	limit, ok := fs.Limit()
	assert.True(t, ok)
	assert.Equal(t, 25, limit)
	minCount, ok := fs.MinCount()
	assert.True(t, ok)
	assert.Equal(t, 0, minCount)
	missing, ok := fs.Missing()
	assert.True(t, ok)
	assert.False(t, missing)
}

func TestFacetSet_OptionsAreIndependent(t *testing.T) {
	fs := newEmptySet(t)
	fs.SetLimit(10)
	fs.SetMinCount(3)

	fs.UnsetOption(OptionLimit)

	_, ok := fs.Limit()
	assert.False(t, ok)
	minCount, ok := fs.MinCount()
	assert.True(t, ok)
	assert.Equal(t, 3, minCount)
	_, ok = fs.Prefix()
	assert.False(t, ok)
}

func TestNewFacetSet_FromConfig(t *testing.T) {
	fs, err := NewFacetSet(Options{
		"facet": map[string]interface{}{
			"popularity": map[string]interface{}{"type": "field", "field": "category"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fs.Len())
	f, ok := fs.Facet("popularity")
	require.True(t, ok)
	assert.Equal(t, FacetField, f.Type())
	_, hasBlock := fs.Options()[OptionFacet]
	assert.False(t, hasBlock)
}

func TestNewFacetSet_LooselyTypedOptions(t *testing.T) {
	fs, err := NewFacetSet(Options{
		"prefix":   "a",
		"sort":     "count",
		"limit":    int64(15),
		"mincount": float64(2),
		"missing":  "true",
	})
	require.NoError(t, err)

	limit, _ := fs.Limit()
	minCount, _ := fs.MinCount()
	missing, _ := fs.Missing()
	assert.Equal(t, 15, limit)
	assert.Equal(t, 2, minCount)
	assert.True(t, missing)
}

func TestNewFacetSet_RejectsFractionalIntegers(t *testing.T) {
	_, err := NewFacetSet(Options{"limit": 10.7})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewFacetSet(Options{"mincount": float32(0.5)})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewFacet(FacetConfig{"type": "field", "key": "a", "field": "a", "offset": 2.5})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	fs, err := NewFacetSet(Options{"limit": 10.0})
	require.NoError(t, err)
	limit, ok := fs.Limit()
	assert.True(t, ok)
	assert.Equal(t, 10, limit)
}

func TestNewFacetSet_BlockShapes(t *testing.T) {
	tests := []struct {
		name  string
		block interface{}
		keys  []string
	}{
		{
			name: "facet list keeps order",
			block: FacetList{
				{ID: "z", Config: FacetConfig{"type": "query", "query": "1"}},
				{ID: "a", Config: FacetConfig{"type": "query", "query": "2"}},
			},
			keys: []string{"z", "a"},
		},
		{
			name: "config map sorted by id",
			block: map[string]FacetConfig{
				"z": {"type": "query", "query": "1"},
				"a": {"type": "query", "query": "2"},
			},
			keys: []string{"a", "z"},
		},
		{
			name: "built facets",
			block: map[string]interface{}{
				"ignored": NewFieldFacet("cat", "cat"),
			},
			keys: []string{"cat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := NewFacetSet(Options{"facet": tt.block})
			require.NoError(t, err)
			assert.Equal(t, tt.keys, fs.Keys())
		})
	}
}

func TestNewFacetSet_InvalidBlock(t *testing.T) {
	_, err := NewFacetSet(Options{"facet": "category"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewFacetSet(Options{"facet": map[string]interface{}{"a": 1}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewFacetSet(Options{"limit": "lots"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewFacetSet_BlockUsesSameChecks(t *testing.T) {
	_, err := NewFacetSet(Options{
		"facet": map[string]interface{}{
			"a": map[string]interface{}{"type": "query", "query": "x", "key": "same"},
			"b": map[string]interface{}{"type": "query", "query": "y", "key": "same"},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = NewFacetSet(Options{
		"facet": map[string]interface{}{"a": map[string]interface{}{"type": "bogus"}},
	})
	assert.ErrorIs(t, err, ErrUnknownFacetType)
}

func TestNewFacetSet_DoesNotMutateOptions(t *testing.T) {
	opts := Options{
		"limit": 5,
		"facet": map[string]interface{}{"a": map[string]interface{}{"type": "query", "query": "x"}},
	}
	_, err := NewFacetSet(opts)
	require.NoError(t, err)
	assert.Contains(t, opts, "facet")
}

func TestFacetSet_EffectiveOptions(t *testing.T) {
	fs := newEmptySet(t)
	fs.SetLimit(10)
	fs.SetMinCount(1)

	f := NewFieldFacet("cat", "cat")
	limit := 3
	f.Limit = &limit

	effective := fs.EffectiveOptions(f)
	require.NotNil(t, effective.Limit)
	require.NotNil(t, effective.MinCount)
	assert.Equal(t, 3, *effective.Limit)
	assert.Equal(t, 1, *effective.MinCount)
	assert.Nil(t, effective.Prefix)
}

func TestFacetSet_Clone(t *testing.T) {
	fs := newEmptySet(t)
	fs.SetLimit(10)
	require.NoError(t, fs.AddFacet(NewFieldFacet("a", "a")))

	c := fs.Clone()
	require.NoError(t, c.AddFacet(NewFieldFacet("b", "b")))
	c.SetLimit(20)

	assert.Equal(t, []string{"a"}, fs.Keys())
	assert.Equal(t, []string{"a", "b"}, c.Keys())
	limit, _ := fs.Limit()
	assert.Equal(t, 10, limit)
}
