package models

import "errors"

// Errors returned when a facet is added to a FacetSet. They are configuration
// mistakes made by the caller, never transient failures.
var (
	// ErrMissingKey indicates a facet without a key.
	ErrMissingKey = errors.New("a facet must have a key value")

	// ErrDuplicateKey indicates a facet key that is already in use within the set.
	ErrDuplicateKey = errors.New("a facet must have a unique key value within a query")

	// ErrUnknownFacetType indicates a facet config whose type has no builder.
	ErrUnknownFacetType = errors.New("unknown facet type")

	// ErrInvalidConfig indicates options or facet parameters that cannot be
	// decoded into their typed form.
	ErrInvalidConfig = errors.New("invalid facet config")
)
