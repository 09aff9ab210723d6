package router

import (
	"net/http"
	"time"

	"facet-config-service/handlers"
	"facet-config-service/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func NewRouter(svc *services.FacetService, defaultIndex string) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, accessLog)

	r.HandleFunc("/facets/solr", handlers.PostSolrFacets(svc)).Methods(http.MethodPost)
	r.HandleFunc("/facets/solr", handlers.GetSolrFacets(svc)).Methods(http.MethodGet)
	r.HandleFunc("/{index_name}/facets/elasticsearch", handlers.PostElasticsearchFacets(svc)).Methods(http.MethodPost)
	r.HandleFunc("/presets", handlers.ListPresets(svc)).Methods(http.MethodGet)
	r.HandleFunc("/presets/{name}/{format}", handlers.GetPreset(svc, defaultIndex)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// requestID tags every request with an id, keeping one sent by the client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(handlers.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(handlers.RequestIDHeader, id)
		}
		w.Header().Set(handlers.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"request_id": r.Header.Get(handlers.RequestIDHeader),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start),
		}).Debug("request served")
	})
}
