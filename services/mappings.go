package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"facet-config-service/models"
)

// LoadFieldMappings reads the output of an Elasticsearch GET <index>/_mapping
// call and returns a QueryBuilder over its fields. An empty filename yields a
// builder without mappings.
func LoadFieldMappings(filename string) (*models.QueryBuilder, error) {
	if filename == "" {
		return models.NewQueryBuilder(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading mappings file: %w", err)
	}

	var mappingResponse map[string]interface{}
	if err := json.Unmarshal(data, &mappingResponse); err != nil {
		return nil, fmt.Errorf("error unmarshaling mappings: %w", err)
	}
	return ParseFieldMappings(mappingResponse)
}

// ParseFieldMappings flattens a mapping response. When it covers several
// indices the first index in name order is used.
func ParseFieldMappings(mappingResponse map[string]interface{}) (*models.QueryBuilder, error) {
	indexNames := make([]string, 0, len(mappingResponse))
	for name := range mappingResponse {
		indexNames = append(indexNames, name)
	}
	sort.Strings(indexNames)

	qb := models.NewQueryBuilder()
	if len(indexNames) == 0 {
		return qb, nil
	}

	indexMapping, _ := mappingResponse[indexNames[0]].(map[string]interface{})
	mappings, _ := indexMapping["mappings"].(map[string]interface{})
	properties, ok := mappings["properties"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("no properties in mapping for index: %s", indexNames[0])
	}

	if err := processMapping(properties, "", qb.FieldMappings); err != nil {
		return nil, err
	}
	return qb, nil
}

// processMapping recursively processes the Elasticsearch mapping
func processMapping(properties map[string]interface{}, prefix string, fieldMappings map[string]models.FieldMapping) error {
	for field, mapping := range properties {
		mappingMap, ok := mapping.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid mapping for field: %s", field)
		}
		currentPath := prefix
		if prefix != "" {
			currentPath += "."
		}
		currentPath += field

		if nestedProps, ok := mappingMap["properties"].(map[string]interface{}); ok {
			if err := processMapping(nestedProps, currentPath, fieldMappings); err != nil {
				return err
			}
			if mappingMap["type"] == "nested" {
				updateNestedStatus(currentPath, fieldMappings)
			}
			continue
		}

		fieldType, ok := mappingMap["type"].(string)
		if !ok {
			return fmt.Errorf("missing type for field: %s", currentPath)
		}
		dataTypes := []string{fieldType}
		if fields, ok := mappingMap["fields"].(map[string]interface{}); ok {
			for _, subField := range sortedFieldNames(fields) {
				subMapping, _ := fields[subField].(map[string]interface{})
				if subType, ok := subMapping["type"].(string); ok {
					dataTypes = append(dataTypes, subType)
				}
			}
		}

		fieldMappings[currentPath] = models.FieldMapping{
			Path:     parentPath(currentPath),
			DataType: dataTypes,
		}
	}
	return nil
}

// updateNestedStatus marks every field under nestedPath as nested. Fields
// already inside a deeper nested object keep that object as their path.
func updateNestedStatus(nestedPath string, fieldMappings map[string]models.FieldMapping) {
	for field, mapping := range fieldMappings {
		if strings.HasPrefix(field, nestedPath+".") && !mapping.IsNested {
			mapping.IsNested = true
			mapping.Path = nestedPath
			fieldMappings[field] = mapping
		}
	}
}

func parentPath(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i]
	}
	return ""
}

func sortedFieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
