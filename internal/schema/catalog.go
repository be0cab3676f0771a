package schema

// CatalogEntry descreve o stream disponível para descoberta
type CatalogEntry struct {
	TapStreamID   string         `json:"tap_stream_id"`
	Stream        string         `json:"stream"`
	Schema        map[string]any `json:"schema"`
	KeyProperties []string       `json:"key_properties"`
}

type Catalog struct {
	Streams []CatalogEntry `json:"streams"`
}

// NewCatalog monta o catálogo do relatório master com as chaves de groupings
func NewCatalog(groupings string) Catalog {
	return Catalog{
		Streams: []CatalogEntry{
			{
				TapStreamID:   StreamName,
				Stream:        StreamName,
				Schema:        JSONSchema(MasterReport),
				KeyProperties: PrimaryKeys(groupings),
			},
		},
	}
}
