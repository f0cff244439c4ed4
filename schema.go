package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed catalog.schema.json
var catalogSchemaJSON string

var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("catalog.schema.json", catalogSchemaJSON)
})

// validateCatalogJSON checks raw catalog JSON against the embedded schema.
func validateCatalogJSON(data []byte) error {
	s, err := catalogSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: catalog: %w", ErrInvalidInput, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: catalog: %w", ErrInvalidInput, err)
	}
	return nil
}
