package models

// FacetSetRequest is the JSON body of the facet endpoints:
// the facet set options plus a "facet" object of id to facet config.
type FacetSetRequest struct {
	FacetOptions
	Facets FacetList `json:"facet,omitempty"`
}

// Options converts the request into NewFacetSet options.
func (r FacetSetRequest) Options() Options {
	opts := r.FacetOptions.options()
	if r.Facets != nil {
		opts[OptionFacet] = r.Facets
	}
	return opts
}

// FacetQueryParams is the query string form of a facet request. Every field
// parameter becomes a field facet keyed by the field name.
type FacetQueryParams struct {
	Fields   []string `schema:"field"`
	Prefix   *string  `schema:"prefix"`
	Sort     *string  `schema:"sort"`
	Limit    *int     `schema:"limit"`
	MinCount *int     `schema:"mincount"`
	Missing  *bool    `schema:"missing"`
}

func (q FacetQueryParams) Options() Options {
	opts := FacetOptions{
		Prefix:   q.Prefix,
		Sort:     q.Sort,
		Limit:    q.Limit,
		MinCount: q.MinCount,
		Missing:  q.Missing,
	}.options()

	list := make(FacetList, 0, len(q.Fields))
	for _, field := range q.Fields {
		list = append(list, FacetEntry{
			ID:     field,
			Config: FacetConfig{ConfigType: string(FacetField), "field": field},
		})
	}
	opts[OptionFacet] = list
	return opts
}

func (o FacetOptions) options() Options {
	opts := Options{}
	if o.Prefix != nil {
		opts[OptionPrefix] = *o.Prefix
	}
	if o.Sort != nil {
		opts[OptionSort] = *o.Sort
	}
	if o.Limit != nil {
		opts[OptionLimit] = *o.Limit
	}
	if o.MinCount != nil {
		opts[OptionMinCount] = *o.MinCount
	}
	if o.Missing != nil {
		opts[OptionMissing] = *o.Missing
	}
	return opts
}
