package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"facet-config-service/models"
	"facet-config-service/services"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

type solrResponse struct {
	Params url.Values `json:"params"`
	Query  string     `json:"query"`
}

type elasticsearchResponse struct {
	Index []string        `json:"index"`
	Body  json.RawMessage `json:"body"`
}

// PostSolrFacets renders the facet set in the request body as Solr parameters.
func PostSolrFacets(svc *services.FacetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.FacetSetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, r, fmt.Errorf("error decoding request body: %w", err))
			return
		}
		fs, err := svc.NewFacetSet(req.Options())
		if err != nil {
			writeError(w, r, err)
			return
		}
		renderSolr(w, r, svc, fs)
	}
}

// GetSolrFacets renders field facets given as query parameters, e.g.
// ?field=brand&field=category&limit=10.
func GetSolrFacets(svc *services.FacetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query models.FacetQueryParams
		if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
			writeBadRequest(w, r, fmt.Errorf("error decoding query string: %w", err))
			return
		}
		fs, err := svc.NewFacetSet(query.Options())
		if err != nil {
			writeError(w, r, err)
			return
		}
		renderSolr(w, r, svc, fs)
	}
}

// PostElasticsearchFacets renders the facet set in the request body as an
// Elasticsearch search request against the index read alias.
func PostElasticsearchFacets(svc *services.FacetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		indexName := vars["index_name"]

		var req models.FacetSetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, r, fmt.Errorf("error decoding request body: %w", err))
			return
		}
		fs, err := svc.NewFacetSet(req.Options())
		if err != nil {
			writeError(w, r, err)
			return
		}
		ind := models.GetIndexInfo(models.IndexName{Index: indexName})
		renderElasticsearch(w, r, svc, ind, fs)
	}
}

// GetPreset renders a configured preset. The index query parameter selects
// the Elasticsearch index and defaults to defaultIndex.
func GetPreset(svc *services.FacetService, defaultIndex string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		fs, err := svc.Preset(vars["name"])
		if err != nil {
			writeError(w, r, err)
			return
		}

		switch vars["format"] {
		case services.FormatSolr:
			renderSolr(w, r, svc, fs)
		case services.FormatElasticsearch:
			indexName := r.URL.Query().Get("index")
			if indexName == "" {
				indexName = defaultIndex
			}
			renderElasticsearch(w, r, svc, models.GetIndexInfo(models.IndexName{Index: indexName}), fs)
		default:
			writeJSON(w, http.StatusNotFound, errorResponse{
				Error: fmt.Sprintf("unknown format %q", vars["format"]),
				Kind:  kindUnknownFormat,
			})
		}
	}
}

// ListPresets returns the configured preset names.
func ListPresets(svc *services.FacetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"presets": svc.Presets()})
	}
}

func renderSolr(w http.ResponseWriter, r *http.Request, svc *services.FacetService, fs *models.FacetSet) {
	params, err := svc.RenderSolr(fs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, solrResponse{Params: params, Query: params.Encode()})
}

func renderElasticsearch(w http.ResponseWriter, r *http.Request, svc *services.FacetService, ind models.IndexInfo, fs *models.FacetSet) {
	req, err := svc.RenderElasticsearch(ind, fs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, elasticsearchResponse{Index: req.Index, Body: body})
}
