package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"facet-config-service/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	// nestedFacetAgg names the inner aggregation of a facet on a nested field.
	nestedFacetAgg = "facet_values"
	// pivotAgg names the sub-aggregation holding the next pivot level.
	pivotAgg = "pivot"
	// MissingBucket is the term documents without a value are counted under.
	MissingBucket = "_missing"
)

// BuildSearchRequest builds the size 0 search request that computes the facet
// set's aggregations against the index read alias. The request is not sent.
func BuildSearchRequest(index models.IndexInfo, fs *models.FacetSet, qb *models.QueryBuilder) (*esapi.SearchRequest, error) {
	body, err := BuildSearchBody(fs, qb)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("error encoding search body: %w", err)
	}
	return &esapi.SearchRequest{
		Index: []string{index.ReadAlias},
		Body:  &buf,
	}, nil
}

// BuildSearchBody returns the search body for fs. Only aggregations are
// requested.
func BuildSearchBody(fs *models.FacetSet, qb *models.QueryBuilder) (map[string]interface{}, error) {
	aggregations, err := BuildAggregations(fs, qb)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"size":         0,
		"aggregations": aggregations,
	}, nil
}

// BuildAggregations translates each facet into an aggregation named by the
// facet key. Field facets on fields mapped as not aggregatable are left out.
func BuildAggregations(fs *models.FacetSet, qb *models.QueryBuilder) (map[string]interface{}, error) {
	aggregations := make(map[string]interface{})
	defaults := fs.Defaults()

	for _, f := range fs.Facets() {
		var agg map[string]interface{}
		var err error

		switch facet := f.(type) {
		case *models.FieldFacet:
			agg = fieldAggregation(facet, defaults.Merge(facet.FacetOptions), qb)
		case *models.QueryFacet:
			agg = map[string]interface{}{"filter": queryString(facet.Query)}
		case *models.MultiQueryFacet:
			filters := make(map[string]interface{}, len(facet.Queries))
			for _, q := range facet.Queries {
				filters[q.Key()] = queryString(q.Query)
			}
			agg = map[string]interface{}{
				"filters": map[string]interface{}{"filters": filters},
			}
		case *models.RangeFacet:
			agg, err = rangeAggregation(facet, qb)
		case *models.PivotFacet:
			agg, err = pivotAggregation(facet, defaults, qb)
		default:
			err = fmt.Errorf("%w: %q has type %T", ErrUnsupportedFacet, f.Key(), f)
		}
		if err != nil {
			return nil, err
		}
		if agg != nil {
			aggregations[f.Key()] = agg
		}
	}
	return aggregations, nil
}

func fieldAggregation(facet *models.FieldFacet, opts models.FacetOptions, qb *models.QueryBuilder) map[string]interface{} {
	fieldName, fieldMapping, mapped := qb.AggregationField(facet.Field)
	if mapped && !fieldMapping.Aggregatable() {
		return nil
	}

	terms := map[string]interface{}{"field": fieldName}
	if opts.Limit != nil && *opts.Limit >= 0 {
		terms["size"] = *opts.Limit
	}
	if opts.MinCount != nil {
		terms["min_doc_count"] = *opts.MinCount
	}
	if opts.Prefix != nil {
		terms["include"] = escapeLuceneRegexp(*opts.Prefix) + ".*"
	}
	if opts.Sort != nil {
		switch *opts.Sort {
		case models.SortCount:
			terms["order"] = map[string]interface{}{"_count": "desc"}
		case models.SortIndex:
			terms["order"] = map[string]interface{}{"_key": "asc"}
		}
	}
	if opts.Missing != nil && *opts.Missing && (!mapped || fieldMapping.HasType("keyword")) {
		terms["missing"] = MissingBucket
	}

	if fieldMapping.IsNested {
		return map[string]interface{}{
			"nested": map[string]interface{}{
				"path": fieldMapping.Path,
			},
			"aggs": map[string]interface{}{
				nestedFacetAgg: map[string]interface{}{"terms": terms},
			},
		}
	}
	return map[string]interface{}{"terms": terms}
}

// pivotAggregation nests one terms aggregation per field, outermost first.
func pivotAggregation(facet *models.PivotFacet, defaults models.FacetOptions, qb *models.QueryBuilder) (map[string]interface{}, error) {
	if len(facet.Fields) == 0 {
		return nil, fmt.Errorf("%w: pivot %q has no fields", ErrUnsupportedFacet, facet.Key())
	}

	var agg map[string]interface{}
	for i := len(facet.Fields) - 1; i >= 0; i-- {
		fieldName, _, _ := qb.AggregationField(facet.Fields[i])
		terms := map[string]interface{}{"field": fieldName}
		if defaults.Limit != nil && *defaults.Limit >= 0 {
			terms["size"] = *defaults.Limit
		}
		if facet.MinCount != nil {
			terms["min_doc_count"] = *facet.MinCount
		}
		level := map[string]interface{}{"terms": terms}
		if agg != nil {
			level["aggs"] = map[string]interface{}{pivotAgg: agg}
		}
		agg = level
	}
	return agg, nil
}

var (
	solrDateGap  = regexp.MustCompile(`^\+?(\d+)(YEAR|MONTH|WEEK|DAY|HOUR|MINUTE|SECOND)S?$`)
	solrDateUnit = regexp.MustCompile(`(YEAR|MONTH|WEEK|DAY|HOUR|MINUTE|SECOND)S?`)
)

var esDateUnits = map[string]string{
	"YEAR":   "y",
	"MONTH":  "M",
	"WEEK":   "w",
	"DAY":    "d",
	"HOUR":   "h",
	"MINUTE": "m",
	"SECOND": "s",
}

// rangeAggregation maps a numeric range onto a histogram and a Solr date
// range onto a date_histogram.
func rangeAggregation(facet *models.RangeFacet, qb *models.QueryBuilder) (map[string]interface{}, error) {
	if strings.TrimSpace(facet.Start) == "" || strings.TrimSpace(facet.End) == "" {
		return nil, fmt.Errorf("%w: %q needs both start and end", ErrUnsupportedRange, facet.Key())
	}
	fieldName, _, _ := qb.AggregationField(facet.Field)
	minDocCount := 0
	if facet.MinCount != nil {
		minDocCount = *facet.MinCount
	}
	hardEnd := facet.HardEnd != nil && *facet.HardEnd

	start, errStart := strconv.ParseFloat(facet.Start, 64)
	end, errEnd := strconv.ParseFloat(facet.End, 64)
	gap, errGap := strconv.ParseFloat(facet.Gap, 64)
	if errStart == nil && errEnd == nil && errGap == nil {
		if gap <= 0 {
			return nil, fmt.Errorf("%w: %q has gap %s", ErrUnsupportedRange, facet.Key(), facet.Gap)
		}
		histogram := map[string]interface{}{
			"field":           fieldName,
			"interval":        gap,
			"min_doc_count":   minDocCount,
			"extended_bounds": map[string]interface{}{"min": start, "max": end},
		}
		if hardEnd {
			histogram["hard_bounds"] = map[string]interface{}{"min": start, "max": end}
		}
		return map[string]interface{}{"histogram": histogram}, nil
	}

	m := solrDateGap.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(facet.Gap)))
	if m == nil {
		return nil, fmt.Errorf("%w: %q has gap %q", ErrUnsupportedRange, facet.Key(), facet.Gap)
	}
	count, unit := m[1], m[2]
	histogram := map[string]interface{}{
		"field":         fieldName,
		"min_doc_count": minDocCount,
		"extended_bounds": map[string]interface{}{
			"min": solrDateMath(facet.Start),
			"max": solrDateMath(facet.End),
		},
	}
	switch {
	case count == "1":
		histogram["calendar_interval"] = "1" + esDateUnits[unit]
	case unit == "YEAR" || unit == "MONTH" || unit == "WEEK":
		return nil, fmt.Errorf("%w: %q has calendar gap %q", ErrUnsupportedRange, facet.Key(), facet.Gap)
	default:
		histogram["fixed_interval"] = count + esDateUnits[unit]
	}
	if hardEnd {
		histogram["hard_bounds"] = histogram["extended_bounds"]
	}
	return map[string]interface{}{"date_histogram": histogram}, nil
}

// solrDateMath rewrites Solr date math (NOW-1YEAR/DAY) to Elasticsearch date
// math (now-1y/d). Absolute dates pass through.
func solrDateMath(expr string) string {
	expr = strings.Replace(expr, "NOW", "now", 1)
	return solrDateUnit.ReplaceAllStringFunc(expr, func(unit string) string {
		return esDateUnits[strings.TrimSuffix(unit, "S")]
	})
}

func queryString(query string) map[string]interface{} {
	return map[string]interface{}{
		"query_string": map[string]interface{}{"query": query},
	}
}

// escapeLuceneRegexp escapes the operators of the Lucene regexp syntax used
// by terms include patterns.
func escapeLuceneRegexp(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`.?+*|{}[]()"\#@&<>~`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
