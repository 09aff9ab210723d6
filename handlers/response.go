package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"facet-config-service/models"
	"facet-config-service/services"

	log "github.com/sirupsen/logrus"
)

// RequestIDHeader carries the id the router assigns to each request.
const RequestIDHeader = "X-Request-ID"

// Error kinds for failures outside facet set construction.
const (
	kindBadRequest    = "bad_request"
	kindUnknownFormat = "unknown_format"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	jsonResponse, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Error converting response to JSON: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonResponse)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	kind := services.ErrorKind(err)

	entry := log.WithFields(log.Fields{
		"request_id": r.Header.Get(RequestIDHeader),
		"path":       r.URL.Path,
		"kind":       kind,
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("facet request failed")
	} else {
		entry.WithError(err).Info("facet request rejected")
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

// writeBadRequest reports a request that could not be decoded.
func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	log.WithFields(log.Fields{
		"request_id": r.Header.Get(RequestIDHeader),
		"path":       r.URL.Path,
		"kind":       kindBadRequest,
	}).WithError(err).Info("facet request rejected")

	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindBadRequest})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrMissingKey),
		errors.Is(err, models.ErrDuplicateKey),
		errors.Is(err, models.ErrUnknownFacetType),
		errors.Is(err, models.ErrInvalidConfig),
		errors.Is(err, services.ErrUnsupportedFacet),
		errors.Is(err, services.ErrUnsupportedRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
