package models

import "strings"

type IndexName struct {
	Index string `json:"index_name"`
}

// IndexInfo names an index and the aliases requests are addressed to. Facet
// requests read through ReadAlias.
type IndexInfo struct {
	ReadAlias  string
	WriteAlias string
	IndexName  string
}

func GetIndexInfo(index IndexName) IndexInfo {
	name := strings.TrimSpace(index.Index)
	return IndexInfo{
		IndexName:  name,
		ReadAlias:  name + "_ReadAlias",
		WriteAlias: name + "_WriteAlias",
	}
}
