package services

import (
	"errors"
	"fmt"
	"testing"

	"facet-config-service/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPresets() map[string]models.Options {
	return map[string]models.Options{
		"default": {
			"limit": 20,
			"facet": map[string]interface{}{
				"popularity": map[string]interface{}{"type": "field", "field": "category"},
			},
		},
		"broken": {
			"facet": map[string]interface{}{
				"x": map[string]interface{}{"type": "bogus"},
			},
		},
	}
}

func TestFacetService_Preset(t *testing.T) {
	svc := NewFacetService(nil, testPresets())

	fs, err := svc.Preset("default")
	require.NoError(t, err)
	assert.Equal(t, []string{"popularity"}, fs.Keys())

	// presets build a fresh set each time
	fs.ClearFacets()
	again, err := svc.Preset("default")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Len())

	assert.Equal(t, []string{"broken", "default"}, svc.Presets())
}

func TestFacetService_PresetErrors(t *testing.T) {
	svc := NewFacetService(nil, testPresets())

	before := testutil.ToFloat64(facetSetErrors.WithLabelValues("preset_not_found"))
	_, err := svc.Preset("nope")
	assert.ErrorIs(t, err, ErrPresetNotFound)
	assert.Equal(t, before+1, testutil.ToFloat64(facetSetErrors.WithLabelValues("preset_not_found")))

	_, err = svc.Preset("broken")
	assert.ErrorIs(t, err, models.ErrUnknownFacetType)
}

func TestFacetService_Render(t *testing.T) {
	svc := NewFacetService(nil, testPresets())
	fs, err := svc.Preset("default")
	require.NoError(t, err)

	before := testutil.ToFloat64(facetSetsRendered.WithLabelValues(FormatSolr))
	params, err := svc.RenderSolr(fs)
	require.NoError(t, err)
	assert.Equal(t, "20", params.Get("facet.limit"))
	assert.Equal(t, before+1, testutil.ToFloat64(facetSetsRendered.WithLabelValues(FormatSolr)))

	req, err := svc.RenderElasticsearch(models.GetIndexInfo(models.IndexName{Index: "p"}), fs)
	require.NoError(t, err)
	assert.Equal(t, []string{"p_ReadAlias"}, req.Index)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, ""},
		{fmt.Errorf("facet %q: %w", "a", models.ErrMissingKey), "missing_key"},
		{models.ErrDuplicateKey, "duplicate_key"},
		{models.ErrUnknownFacetType, "unknown_facet_type"},
		{models.ErrInvalidConfig, "invalid_config"},
		{ErrUnsupportedFacet, "unsupported_facet"},
		{ErrUnsupportedRange, "unsupported_range"},
		{ErrPresetNotFound, "preset_not_found"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ErrorKind(tt.err))
	}
}
