package models

import (
	"fmt"
	"sort"
)

// Reserved FacetConfig fields.
const (
	ConfigType = "type"
	ConfigKey  = "key"
)

// configQueries holds the sub-queries of a multiquery facet.
const configQueries = "query"

// FacetConfig is the declarative form of a facet: {"type": ..., "key": ..., params}.
type FacetConfig map[string]interface{}

type facetBuilder func(cfg FacetConfig) (Facet, error)

var facetBuilders = map[FacetType]facetBuilder{
	FacetField:      decodeFacet(func() Facet { return &FieldFacet{} }),
	FacetQuery:      decodeFacet(func() Facet { return &QueryFacet{} }),
	FacetRange:      decodeFacet(func() Facet { return &RangeFacet{} }),
	FacetPivot:      decodeFacet(func() Facet { return &PivotFacet{} }),
	FacetMultiQuery: buildMultiQueryFacet,
}

// NewFacet builds the concrete facet selected by cfg's type. The type name is
// matched case-insensitively.
func NewFacet(cfg FacetConfig) (Facet, error) {
	var name string
	switch v := cfg[ConfigType].(type) {
	case string:
		name = v
	case FacetType:
		name = string(v)
	}
	build, ok := facetBuilders[ParseFacetType(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFacetType, name)
	}
	return build(cfg)
}

// FacetTypes lists the known facet types in sorted order.
func FacetTypes() []FacetType {
	types := make([]FacetType, 0, len(facetBuilders))
	for t := range facetBuilders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func decodeFacet(newFacet func() Facet) facetBuilder {
	return func(cfg FacetConfig) (Facet, error) {
		facet := newFacet()
		if err := decodeConfig(map[string]interface{}(cfg), facet); err != nil {
			return nil, fmt.Errorf("%w: %s facet: %w", ErrInvalidConfig, facet.Type(), err)
		}
		return facet, nil
	}
}

// buildMultiQueryFacet reads the "query" block: sub-query id to either a
// query string or {query, key, exclude}. The id defaults the sub-query key.
// An OrderedConfig or a list keeps its order; a plain map is visited in
// sorted id order.
func buildMultiQueryFacet(cfg FacetConfig) (Facet, error) {
	var raw struct {
		Key      string      `mapstructure:"key"`
		Excludes []string    `mapstructure:"exclude"`
		Queries  interface{} `mapstructure:"query"`
	}
	if err := decodeConfig(map[string]interface{}(cfg), &raw); err != nil {
		return nil, fmt.Errorf("%w: multiquery facet: %w", ErrInvalidConfig, err)
	}
	queries, err := toOrderedConfig(raw.Queries)
	if err != nil {
		return nil, fmt.Errorf("%w: multiquery %q: %w", ErrInvalidConfig, raw.Key, err)
	}

	facet := NewMultiQueryFacet(raw.Key)
	facet.Excludes = raw.Excludes
	for _, entry := range queries {
		var sub struct {
			Key      string   `mapstructure:"key"`
			Query    string   `mapstructure:"query"`
			Excludes []string `mapstructure:"exclude"`
		}
		switch v := entry.Value.(type) {
		case string:
			sub.Query = v
		default:
			if err := decodeConfig(v, &sub); err != nil {
				return nil, fmt.Errorf("%w: multiquery %q query %q: %w", ErrInvalidConfig, raw.Key, entry.ID, err)
			}
		}
		if sub.Key == "" {
			sub.Key = entry.ID
		}
		if err := facet.AddQuery(sub.Key, sub.Query, sub.Excludes...); err != nil {
			return nil, err
		}
	}
	return facet, nil
}

// toOrderedConfig accepts the shapes a multiquery "query" block can take.
// List items carry their own key.
func toOrderedConfig(block interface{}) (OrderedConfig, error) {
	switch v := block.(type) {
	case nil:
		return nil, nil
	case OrderedConfig:
		return v, nil
	case map[string]interface{}:
		ordered := make(OrderedConfig, 0, len(v))
		for _, id := range sortedKeys(v) {
			ordered = append(ordered, ConfigEntry{ID: id, Value: v[id]})
		}
		return ordered, nil
	case map[string]string:
		ordered := make(OrderedConfig, 0, len(v))
		for _, id := range sortedKeys(v) {
			ordered = append(ordered, ConfigEntry{ID: id, Value: v[id]})
		}
		return ordered, nil
	case []interface{}:
		ordered := make(OrderedConfig, 0, len(v))
		for _, item := range v {
			ordered = append(ordered, ConfigEntry{Value: item})
		}
		return ordered, nil
	case []map[string]interface{}:
		ordered := make(OrderedConfig, 0, len(v))
		for _, item := range v {
			ordered = append(ordered, ConfigEntry{Value: item})
		}
		return ordered, nil
	default:
		return nil, fmt.Errorf("unsupported query block type %T", block)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
