package models

import (
	"fmt"
	"strings"
)

// FacetType names a concrete facet variant.
type FacetType string

const (
	FacetField      FacetType = "field"
	FacetQuery      FacetType = "query"
	FacetMultiQuery FacetType = "multiquery"
	FacetRange      FacetType = "range"
	FacetPivot      FacetType = "pivot"
)

// ParseFacetType normalizes a type name from config. It does not check that
// the type is known; NewFacet does.
func ParseFacetType(name string) FacetType {
	return FacetType(strings.ToLower(strings.TrimSpace(name)))
}

// Facet is one aggregation request within a FacetSet.
type Facet interface {
	Key() string
	Type() FacetType
}

// FacetOptions holds the facet-wide defaults. On a FacetSet they apply to
// every facet; on a FieldFacet they override the set. nil means unset.
type FacetOptions struct {
	Prefix   *string `mapstructure:"prefix" json:"prefix,omitempty"`
	Sort     *string `mapstructure:"sort" json:"sort,omitempty"`
	Limit    *int    `mapstructure:"limit" json:"limit,omitempty"`
	MinCount *int    `mapstructure:"mincount" json:"mincount,omitempty"`
	Missing  *bool   `mapstructure:"missing" json:"missing,omitempty"`
}

// Merge returns o with every option set in override replacing its own.
func (o FacetOptions) Merge(override FacetOptions) FacetOptions {
	if override.Prefix != nil {
		o.Prefix = override.Prefix
	}
	if override.Sort != nil {
		o.Sort = override.Sort
	}
	if override.Limit != nil {
		o.Limit = override.Limit
	}
	if override.MinCount != nil {
		o.MinCount = override.MinCount
	}
	if override.Missing != nil {
		o.Missing = override.Missing
	}
	return o
}

// FieldFacet counts documents per distinct value of a field.
type FieldFacet struct {
	FacetKey     string   `mapstructure:"key"`
	Field        string   `mapstructure:"field"`
	Offset       *int     `mapstructure:"offset"`
	Method       string   `mapstructure:"method"`
	Excludes     []string `mapstructure:"exclude"`
	FacetOptions `mapstructure:",squash"`
}

func NewFieldFacet(key, field string) *FieldFacet {
	return &FieldFacet{FacetKey: key, Field: field}
}

func (f *FieldFacet) Key() string {
	if f == nil {
		return ""
	}
	return f.FacetKey
}

func (f *FieldFacet) Type() FacetType { return FacetField }

// QueryFacet counts the documents matching a query.
type QueryFacet struct {
	FacetKey string   `mapstructure:"key"`
	Query    string   `mapstructure:"query"`
	Excludes []string `mapstructure:"exclude"`
}

func NewQueryFacet(key, query string) *QueryFacet {
	return &QueryFacet{FacetKey: key, Query: query}
}

func (f *QueryFacet) Key() string {
	if f == nil {
		return ""
	}
	return f.FacetKey
}

func (f *QueryFacet) Type() FacetType { return FacetQuery }

// MultiQueryFacet groups several query facets under one key. Sub-query keys
// are unique within the facet and keep their insertion order.
type MultiQueryFacet struct {
	FacetKey string
	Excludes []string
	Queries  []*QueryFacet
}

func NewMultiQueryFacet(key string) *MultiQueryFacet {
	return &MultiQueryFacet{FacetKey: key}
}

func (f *MultiQueryFacet) Key() string {
	if f == nil {
		return ""
	}
	return f.FacetKey
}

func (f *MultiQueryFacet) Type() FacetType { return FacetMultiQuery }

// AddQuery appends a sub-query.
func (f *MultiQueryFacet) AddQuery(key, query string, excludes ...string) error {
	if key == "" {
		return fmt.Errorf("multiquery %q: %w", f.FacetKey, ErrMissingKey)
	}
	if f.Query(key) != nil {
		return fmt.Errorf("multiquery %q: %w: %q", f.FacetKey, ErrDuplicateKey, key)
	}
	f.Queries = append(f.Queries, &QueryFacet{FacetKey: key, Query: query, Excludes: excludes})
	return nil
}

// Query returns the sub-query with the given key, or nil.
func (f *MultiQueryFacet) Query(key string) *QueryFacet {
	for _, q := range f.Queries {
		if q.FacetKey == key {
			return q
		}
	}
	return nil
}

// RemoveQuery drops a sub-query. Removing an unknown key is a no-op.
func (f *MultiQueryFacet) RemoveQuery(key string) {
	for i, q := range f.Queries {
		if q.FacetKey == key {
			f.Queries = append(f.Queries[:i], f.Queries[i+1:]...)
			return
		}
	}
}

// RangeFacet buckets a numeric or date field into ranges of width Gap
// between Start and End.
type RangeFacet struct {
	FacetKey string   `mapstructure:"key"`
	Field    string   `mapstructure:"field"`
	Start    string   `mapstructure:"start"`
	End      string   `mapstructure:"end"`
	Gap      string   `mapstructure:"gap"`
	HardEnd  *bool    `mapstructure:"hardend"`
	Other    []string `mapstructure:"other"`
	Include  []string `mapstructure:"include"`
	MinCount *int     `mapstructure:"mincount"`
	Excludes []string `mapstructure:"exclude"`
}

func NewRangeFacet(key, field, start, end, gap string) *RangeFacet {
	return &RangeFacet{FacetKey: key, Field: field, Start: start, End: end, Gap: gap}
}

func (f *RangeFacet) Key() string {
	if f == nil {
		return ""
	}
	return f.FacetKey
}

func (f *RangeFacet) Type() FacetType { return FacetRange }

// PivotFacet computes a decision tree of counts over several fields.
type PivotFacet struct {
	FacetKey string   `mapstructure:"key"`
	Fields   []string `mapstructure:"fields"`
	MinCount *int     `mapstructure:"mincount"`
	Excludes []string `mapstructure:"exclude"`
}

func NewPivotFacet(key string, fields ...string) *PivotFacet {
	return &PivotFacet{FacetKey: key, Fields: fields}
}

func (f *PivotFacet) Key() string {
	if f == nil {
		return ""
	}
	return f.FacetKey
}

func (f *PivotFacet) Type() FacetType { return FacetPivot }
