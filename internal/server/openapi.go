package server

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiDoc []byte

// loadRequestSchema parses the embedded API document and returns the schema
// that predict request bodies must satisfy.
func loadRequestSchema(ctx context.Context) (*openapi3.Schema, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(openapiDoc)
	if err != nil {
		return nil, fmt.Errorf("loading api document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating api document: %w", err)
	}
	ref := doc.Components.Schemas["PredictRequest"]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("api document has no PredictRequest schema")
	}
	return ref.Value, nil
}
