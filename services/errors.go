package services

import (
	"errors"

	"facet-config-service/models"
)

var (
	// ErrUnsupportedFacet is returned for Facet implementations a serializer
	// has no encoding for.
	ErrUnsupportedFacet = errors.New("unsupported facet")

	// ErrUnsupportedRange is returned when a range facet cannot be expressed
	// as an Elasticsearch histogram.
	ErrUnsupportedRange = errors.New("unsupported range facet")

	ErrPresetNotFound = errors.New("preset not found")
)

// ErrorKind returns a short label for err, used in metrics and responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrMissingKey):
		return "missing_key"
	case errors.Is(err, models.ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, models.ErrUnknownFacetType):
		return "unknown_facet_type"
	case errors.Is(err, models.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrUnsupportedFacet):
		return "unsupported_facet"
	case errors.Is(err, ErrUnsupportedRange):
		return "unsupported_range"
	case errors.Is(err, ErrPresetNotFound):
		return "preset_not_found"
	default:
		return "internal"
	}
}
