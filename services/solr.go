package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"facet-config-service/models"
)

// BuildSolrParams renders a facet set as Solr select parameters. Nothing is
// rendered for a set without facets. Set-wide defaults are top level
// facet.* parameters; per-facet options travel in the facet's local params so
// several facets on one field keep their own options.
func BuildSolrParams(fs *models.FacetSet) (url.Values, error) {
	params := url.Values{}
	facets := fs.Facets()
	if len(facets) == 0 {
		return params, nil
	}

	params.Set("facet", "true")
	for _, p := range facetOptionParams(fs.Defaults()) {
		params.Set(p.name, p.value)
	}

	for _, f := range facets {
		switch facet := f.(type) {
		case *models.FieldFacet:
			params.Add("facet.field", fieldLocalParams(facet)+facet.Field)
		case *models.QueryFacet:
			params.Add("facet.query", localParams(facet.Key(), facet.Excludes)+facet.Query)
		case *models.MultiQueryFacet:
			for _, q := range facet.Queries {
				excludes := append(append([]string(nil), facet.Excludes...), q.Excludes...)
				params.Add("facet.query", localParams(q.Key(), excludes)+q.Query)
			}
		case *models.RangeFacet:
			params.Add("facet.range", rangeLocalParams(facet)+facet.Field)
		case *models.PivotFacet:
			var extra []localParam
			if facet.MinCount != nil {
				extra = append(extra, localParam{"facet.pivot.mincount", strconv.Itoa(*facet.MinCount)})
			}
			params.Add("facet.pivot", localParams(facet.Key(), facet.Excludes, extra...)+strings.Join(facet.Fields, ","))
		default:
			return nil, fmt.Errorf("%w: %q has type %T", ErrUnsupportedFacet, f.Key(), f)
		}
	}
	return params, nil
}

type localParam struct {
	name  string
	value string
}

func fieldLocalParams(facet *models.FieldFacet) string {
	extra := facetOptionParams(facet.FacetOptions)
	if facet.Offset != nil {
		extra = append(extra, localParam{"facet.offset", strconv.Itoa(*facet.Offset)})
	}
	if facet.Method != "" {
		extra = append(extra, localParam{"facet.method", facet.Method})
	}
	return localParams(facet.Key(), facet.Excludes, extra...)
}

func rangeLocalParams(facet *models.RangeFacet) string {
	extra := []localParam{
		{"facet.range.start", facet.Start},
		{"facet.range.end", facet.End},
		{"facet.range.gap", facet.Gap},
	}
	if facet.HardEnd != nil {
		extra = append(extra, localParam{"facet.range.hardend", strconv.FormatBool(*facet.HardEnd)})
	}
	for _, other := range facet.Other {
		extra = append(extra, localParam{"facet.range.other", other})
	}
	for _, include := range facet.Include {
		extra = append(extra, localParam{"facet.range.include", include})
	}
	if facet.MinCount != nil {
		extra = append(extra, localParam{"facet.mincount", strconv.Itoa(*facet.MinCount)})
	}
	return localParams(facet.Key(), facet.Excludes, extra...)
}

func facetOptionParams(o models.FacetOptions) []localParam {
	var out []localParam
	if o.Prefix != nil {
		out = append(out, localParam{"facet.prefix", *o.Prefix})
	}
	if o.Sort != nil {
		out = append(out, localParam{"facet.sort", *o.Sort})
	}
	if o.Limit != nil {
		out = append(out, localParam{"facet.limit", strconv.Itoa(*o.Limit)})
	}
	if o.MinCount != nil {
		out = append(out, localParam{"facet.mincount", strconv.Itoa(*o.MinCount)})
	}
	if o.Missing != nil {
		out = append(out, localParam{"facet.missing", strconv.FormatBool(*o.Missing)})
	}
	return out
}

// localParams renders {!key=k ex=a,b name=value ...}. Results come back
// under the key.
func localParams(key string, excludes []string, extra ...localParam) string {
	var b strings.Builder
	b.WriteString("{!key=")
	b.WriteString(localParamValue(key))
	if len(excludes) > 0 {
		b.WriteString(" ex=")
		b.WriteString(localParamValue(strings.Join(excludes, ",")))
	}
	for _, p := range extra {
		b.WriteString(" ")
		b.WriteString(p.name)
		b.WriteString("=")
		b.WriteString(localParamValue(p.value))
	}
	b.WriteString("}")
	return b.String()
}

// localParamValue quotes values that would end the local params early.
func localParamValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\"}\\") {
		return v
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}
