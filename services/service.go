package services

import (
	"fmt"
	"net/url"
	"sort"

	"facet-config-service/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Output formats.
const (
	FormatSolr          = "solr"
	FormatElasticsearch = "elasticsearch"
)

// FacetService builds facet sets from request options or named presets and
// renders them for a search engine.
type FacetService struct {
	qb      *models.QueryBuilder
	presets map[string]models.Options
}

func NewFacetService(qb *models.QueryBuilder, presets map[string]models.Options) *FacetService {
	if qb == nil {
		qb = models.NewQueryBuilder()
	}
	if presets == nil {
		presets = map[string]models.Options{}
	}
	return &FacetService{qb: qb, presets: presets}
}

// NewFacetSet builds a facet set from options.
func (s *FacetService) NewFacetSet(opts models.Options) (*models.FacetSet, error) {
	fs, err := models.NewFacetSet(opts)
	return fs, observeError(err)
}

// Preset builds a fresh facet set from the named preset.
func (s *FacetService) Preset(name string) (*models.FacetSet, error) {
	opts, ok := s.presets[name]
	if !ok {
		return nil, observeError(fmt.Errorf("%w: %s", ErrPresetNotFound, name))
	}
	return s.NewFacetSet(opts)
}

// Presets returns the preset names in sorted order.
func (s *FacetService) Presets() []string {
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *FacetService) RenderSolr(fs *models.FacetSet) (url.Values, error) {
	params, err := BuildSolrParams(fs)
	if err != nil {
		return nil, observeError(err)
	}
	facetSetsRendered.WithLabelValues(FormatSolr).Inc()
	return params, nil
}

func (s *FacetService) RenderElasticsearch(index models.IndexInfo, fs *models.FacetSet) (*esapi.SearchRequest, error) {
	req, err := BuildSearchRequest(index, fs, s.qb)
	if err != nil {
		return nil, observeError(err)
	}
	facetSetsRendered.WithLabelValues(FormatElasticsearch).Inc()
	return req, nil
}
