package models

import "fmt"

// Option names understood by NewFacetSet.
const (
	OptionPrefix   = "prefix"
	OptionSort     = "sort"
	OptionLimit    = "limit"
	OptionMinCount = "mincount"
	OptionMissing  = "missing"
	OptionFacet    = "facet"
)

// Facet sort orders.
const (
	SortCount = "count"
	SortIndex = "index"
)

// FacetSet is the facet component of a select query: a keyed collection of
// facets plus defaults shared by all of them.
//
// A FacetSet belongs to one query and is not safe for concurrent mutation.
type FacetSet struct {
	component
	facets facetIndex
}

// NewFacetSet creates a FacetSet from options. A "facet" option holds a block
// of id to facet config; each entry is added through AddFacets, so the same
// key and type checks apply as at runtime.
func NewFacetSet(opts Options) (*FacetSet, error) {
	fs := &FacetSet{facets: newFacetIndex()}
	fs.configure(ComponentFacetSet, opts)
	if err := fs.initOptions(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FacetSet) initOptions() error {
	var defaults FacetOptions
	if err := decodeConfig(map[string]interface{}(fs.options), &defaults); err != nil {
		return fmt.Errorf("%w: facet set options: %w", ErrInvalidConfig, err)
	}
	fs.setDefaults(defaults)

	block, ok := fs.option(OptionFacet)
	if !ok {
		return nil
	}
	fs.unsetOption(OptionFacet)
	list, err := toFacetList(block)
	if err != nil {
		return fmt.Errorf("%w: facet block: %w", ErrInvalidConfig, err)
	}
	return fs.AddFacets(list)
}

func (fs *FacetSet) setDefaults(o FacetOptions) {
	storeOptional(&fs.component, OptionPrefix, o.Prefix)
	storeOptional(&fs.component, OptionSort, o.Sort)
	storeOptional(&fs.component, OptionLimit, o.Limit)
	storeOptional(&fs.component, OptionMinCount, o.MinCount)
	storeOptional(&fs.component, OptionMissing, o.Missing)
}

// SetPrefix limits the terms of all facets to those starting with prefix.
func (fs *FacetSet) SetPrefix(prefix string) { fs.setOption(OptionPrefix, prefix) }

// Prefix returns the facet prefix and whether it is set.
func (fs *FacetSet) Prefix() (string, bool) { return optionValue[string](&fs.component, OptionPrefix) }

// SetSort sets the sort order, usually SortCount or SortIndex.
func (fs *FacetSet) SetSort(sort string) { fs.setOption(OptionSort, sort) }

func (fs *FacetSet) Sort() (string, bool) { return optionValue[string](&fs.component, OptionSort) }

// SetLimit sets the maximum number of terms returned per facet.
func (fs *FacetSet) SetLimit(limit int) { fs.setOption(OptionLimit, limit) }

func (fs *FacetSet) Limit() (int, bool) { return optionValue[int](&fs.component, OptionLimit) }

// SetMinCount sets the minimum count a term needs to be returned.
func (fs *FacetSet) SetMinCount(minCount int) { fs.setOption(OptionMinCount, minCount) }

func (fs *FacetSet) MinCount() (int, bool) { return optionValue[int](&fs.component, OptionMinCount) }

// SetMissing toggles the count of documents without a value.
func (fs *FacetSet) SetMissing(missing bool) { fs.setOption(OptionMissing, missing) }

func (fs *FacetSet) Missing() (bool, bool) { return optionValue[bool](&fs.component, OptionMissing) }

// UnsetOption resets one of the facet set options to the engine default.
func (fs *FacetSet) UnsetOption(name string) { fs.unsetOption(name) }

// Defaults returns the set-wide options as FacetOptions.
func (fs *FacetSet) Defaults() FacetOptions {
	var o FacetOptions
	if v, ok := fs.Prefix(); ok {
		o.Prefix = &v
	}
	if v, ok := fs.Sort(); ok {
		o.Sort = &v
	}
	if v, ok := fs.Limit(); ok {
		o.Limit = &v
	}
	if v, ok := fs.MinCount(); ok {
		o.MinCount = &v
	}
	if v, ok := fs.Missing(); ok {
		o.Missing = &v
	}
	return o
}

// EffectiveOptions returns the options that apply to f: its own overrides
// on top of the set defaults.
func (fs *FacetSet) EffectiveOptions(f *FieldFacet) FacetOptions {
	return fs.Defaults().Merge(f.FacetOptions)
}

// AddFacet adds a facet. The key must be non-empty and not yet used.
func (fs *FacetSet) AddFacet(f Facet) error {
	return fs.facets.add(f)
}

// AddFacetConfig builds a facet from cfg and adds it.
func (fs *FacetSet) AddFacetConfig(cfg FacetConfig) error {
	f, err := NewFacet(cfg)
	if err != nil {
		return err
	}
	return fs.AddFacet(f)
}

// AddFacets adds every entry of list in order. Config entries without a key
// use their ID. On error nothing is added.
func (fs *FacetSet) AddFacets(list FacetList) error {
	staged := fs.facets.clone()
	if err := staged.addAll(list); err != nil {
		return err
	}
	fs.facets = staged
	return nil
}

// SetFacets replaces all facets with list. On error the current facets are kept.
func (fs *FacetSet) SetFacets(list FacetList) error {
	staged := newFacetIndex()
	if err := staged.addAll(list); err != nil {
		return err
	}
	fs.facets = staged
	return nil
}

// Facet returns the facet with the given key.
func (fs *FacetSet) Facet(key string) (Facet, bool) {
	f, ok := fs.facets.byKey[key]
	return f, ok
}

// Facets returns the facets in insertion order. The slice is a copy.
func (fs *FacetSet) Facets() []Facet {
	out := make([]Facet, 0, len(fs.facets.keys))
	for _, key := range fs.facets.keys {
		out = append(out, fs.facets.byKey[key])
	}
	return out
}

// FacetMap returns a copy of the facets keyed by key.
func (fs *FacetSet) FacetMap() map[string]Facet {
	out := make(map[string]Facet, len(fs.facets.byKey))
	for key, f := range fs.facets.byKey {
		out[key] = f
	}
	return out
}

// Keys returns the facet keys in insertion order.
func (fs *FacetSet) Keys() []string {
	return append([]string(nil), fs.facets.keys...)
}

func (fs *FacetSet) Len() int { return len(fs.facets.keys) }

// RemoveFacet removes a facet. Unknown keys are ignored.
func (fs *FacetSet) RemoveFacet(key string) {
	fs.facets.remove(key)
}

// ClearFacets removes all facets.
func (fs *FacetSet) ClearFacets() {
	fs.facets = newFacetIndex()
}

// Clone returns a copy of the set for use in another query. Facet values are
// shared with the original.
func (fs *FacetSet) Clone() *FacetSet {
	c := &FacetSet{facets: fs.facets.clone()}
	c.configure(fs.kind, fs.options)
	return c
}

// facetIndex keeps facets unique by key in insertion order.
type facetIndex struct {
	keys  []string
	byKey map[string]Facet
}

func newFacetIndex() facetIndex {
	return facetIndex{byKey: map[string]Facet{}}
}

func (idx facetIndex) clone() facetIndex {
	c := facetIndex{
		keys:  append([]string(nil), idx.keys...),
		byKey: make(map[string]Facet, len(idx.byKey)),
	}
	for key, f := range idx.byKey {
		c.byKey[key] = f
	}
	return c
}

func (idx *facetIndex) add(f Facet) error {
	if f == nil || f.Key() == "" {
		return ErrMissingKey
	}
	key := f.Key()
	if idx.byKey == nil {
		idx.byKey = map[string]Facet{}
	}
	if _, exists := idx.byKey[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	idx.keys = append(idx.keys, key)
	idx.byKey[key] = f
	return nil
}

func (idx *facetIndex) addAll(list FacetList) error {
	for _, entry := range list {
		f, err := entry.resolve()
		if err != nil {
			return fmt.Errorf("facet %q: %w", entry.ID, err)
		}
		if err := idx.add(f); err != nil {
			return fmt.Errorf("facet %q: %w", entry.ID, err)
		}
	}
	return nil
}

func (idx *facetIndex) remove(key string) {
	if _, ok := idx.byKey[key]; !ok {
		return
	}
	delete(idx.byKey, key)
	for i, k := range idx.keys {
		if k == key {
			idx.keys = append(idx.keys[:i], idx.keys[i+1:]...)
			break
		}
	}
}
