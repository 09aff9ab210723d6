package models

// FieldMapping describes how a field is stored in the search index.
type FieldMapping struct {
	Path     string   // path of the enclosing nested object, if any
	DataType []string // the field's type followed by the types of its sub-fields
	IsNested bool
}

// HasType reports whether the field or one of its sub-fields has type t.
func (m FieldMapping) HasType(t string) bool {
	for _, dataType := range m.DataType {
		if dataType == t {
			return true
		}
	}
	return false
}

// Aggregatable reports whether terms can be aggregated on the field.
func (m FieldMapping) Aggregatable() bool {
	for _, dataType := range m.DataType {
		if _, ok := AggregatableTypes[dataType]; ok {
			return true
		}
	}
	return false
}

var AggregatableTypes = map[string]struct{}{
	"keyword": {},
	"integer": {},
	"float":   {},
	"double":  {},
	"long":    {},
	"date":    {},
}

// QueryBuilder resolves facet fields against the index field mappings.
type QueryBuilder struct {
	FieldMappings map[string]FieldMapping
}

// NewQueryBuilder creates a QueryBuilder with no mappings; every field is
// then used as given.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{FieldMappings: map[string]FieldMapping{}}
}

// AggregationField returns the name to aggregate a field on and its mapping.
// Multi-typed fields with a keyword sub-field aggregate on "<field>.keyword".
func (qb *QueryBuilder) AggregationField(field string) (string, FieldMapping, bool) {
	if qb == nil {
		return field, FieldMapping{}, false
	}
	mapping, ok := qb.FieldMappings[field]
	if !ok {
		return field, FieldMapping{}, false
	}
	if len(mapping.DataType) > 1 && mapping.HasType("keyword") {
		return field + ".keyword", mapping, true
	}
	return field, mapping, true
}
