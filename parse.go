package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadCatalog reads an NPC catalog from disk. JSON files (by extension or a
// leading '{') go through the JSON parser, anything else is read as a wiki
// happiness table.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cat, err := loadCatalogString(string(raw), strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

func loadCatalogString(data string, isJSON bool) (*Catalog, error) {
	trimmed := strings.TrimSpace(data)
	if isJSON || (strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "{|")) {
		return parseCatalogJSON(data)
	}
	return parseCatalogWiki(data)
}
