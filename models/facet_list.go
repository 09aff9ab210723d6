package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FacetEntry is one element of a bulk facet collection. Exactly one of Facet
// or Config is expected; ID is the entry's identifier in the input and becomes
// the key of a Config that does not name one.
type FacetEntry struct {
	ID     string
	Facet  Facet
	Config FacetConfig
}

// FacetList is an ordered bulk facet collection.
type FacetList []FacetEntry

// FacetListFromMap builds a FacetList from configs keyed by id, in sorted id order.
func FacetListFromMap(configs map[string]FacetConfig) FacetList {
	list := make(FacetList, 0, len(configs))
	for _, id := range sortedKeys(configs) {
		list = append(list, FacetEntry{ID: id, Config: configs[id]})
	}
	return list
}

// FacetListOf builds a FacetList from already constructed facets.
func FacetListOf(facets ...Facet) FacetList {
	list := make(FacetList, 0, len(facets))
	for _, f := range facets {
		entry := FacetEntry{Facet: f}
		if f != nil {
			entry.ID = f.Key()
		}
		list = append(list, entry)
	}
	return list
}

// resolve turns the entry into a Facet, defaulting the config key to ID.
func (e FacetEntry) resolve() (Facet, error) {
	if e.Facet != nil {
		return e.Facet, nil
	}
	cfg := e.Config
	if cfg[ConfigKey] == nil {
		cfg = make(FacetConfig, len(e.Config)+1)
		for name, value := range e.Config {
			cfg[name] = value
		}
		cfg[ConfigKey] = e.ID
	}
	return NewFacet(cfg)
}

// UnmarshalJSON reads a JSON object of id to facet config, keeping the
// object's key order.
func (l *FacetList) UnmarshalJSON(data []byte) error {
	list := FacetList{}
	found, err := walkObject(data, func(id string, raw json.RawMessage) error {
		cfg, err := decodeFacetConfig(raw)
		if err != nil {
			return fmt.Errorf("error decoding facet %q: %w", id, err)
		}
		list = append(list, FacetEntry{ID: id, Config: cfg})
		return nil
	})
	if err != nil {
		return fmt.Errorf("facet list: %w", err)
	}
	if !found {
		*l = nil
		return nil
	}
	*l = list
	return nil
}

// ConfigEntry is one member of an OrderedConfig.
type ConfigEntry struct {
	ID    string
	Value interface{}
}

// OrderedConfig is a config object whose member order matters, such as the
// sub-queries of a multiquery facet read from JSON.
type OrderedConfig []ConfigEntry

// UnmarshalJSON reads a JSON object, keeping the object's key order.
func (c *OrderedConfig) UnmarshalJSON(data []byte) error {
	ordered := OrderedConfig{}
	found, err := walkObject(data, func(id string, raw json.RawMessage) error {
		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("error decoding %q: %w", id, err)
		}
		ordered = append(ordered, ConfigEntry{ID: id, Value: value})
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		*c = nil
		return nil
	}
	*c = ordered
	return nil
}

// decodeFacetConfig decodes one facet config. An object-valued "query"
// member is kept as an OrderedConfig so multiquery sub-queries stay in
// input order.
func decodeFacetConfig(raw json.RawMessage) (FacetConfig, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, err
	}
	if members == nil {
		return nil, nil
	}

	cfg := make(FacetConfig, len(members))
	for name, value := range members {
		if name == configQueries && isJSONObject(value) {
			var queries OrderedConfig
			if err := json.Unmarshal(value, &queries); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			cfg[name] = queries
			continue
		}
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		cfg[name] = v
	}
	return cfg, nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// walkObject calls fn for every member of the JSON object in data, in
// order. It reports false when data is null.
func walkObject(data []byte, fn func(id string, raw json.RawMessage) error) (bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return false, err
	}
	if tok == nil {
		return false, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return false, fmt.Errorf("must be a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return false, err
		}
		id, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return false, fmt.Errorf("error decoding %q: %w", id, err)
		}
		if err := fn(id, raw); err != nil {
			return false, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return false, err
	}
	return true, nil
}

// toFacetList accepts the shapes a "facet" option block can take.
func toFacetList(block interface{}) (FacetList, error) {
	switch v := block.(type) {
	case nil:
		return nil, nil
	case FacetList:
		return v, nil
	case []FacetEntry:
		return FacetList(v), nil
	case map[string]FacetConfig:
		return FacetListFromMap(v), nil
	case map[string]interface{}:
		list := make(FacetList, 0, len(v))
		for _, id := range sortedKeys(v) {
			entry := FacetEntry{ID: id}
			switch item := v[id].(type) {
			case Facet:
				entry.Facet = item
			case FacetConfig:
				entry.Config = item
			case map[string]interface{}:
				entry.Config = FacetConfig(item)
			default:
				return nil, fmt.Errorf("facet %q: unsupported config type %T", id, item)
			}
			list = append(list, entry)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported facet block type %T", block)
	}
}
