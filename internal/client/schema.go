package client

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// predictResponseSchema describes the only response shapes the form accepts.
// Echoed numbers may arrive preformatted, e.g. "2,000.0 sqft".
const predictResponseSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["success"],
	"properties": {
		"success": {"type": "boolean"},
		"error": {"type": "string"}
	},
	"if": {"properties": {"success": {"const": true}}},
	"then": {
		"required": ["prediction", "currency", "input_details"],
		"properties": {
			"prediction": {"type": "number"},
			"currency": {"type": "string"},
			"input_details": {
				"type": "object",
				"required": ["property_type", "township", "bedrooms", "property_size"],
				"properties": {
					"property_type": {"type": "string"},
					"township": {"type": "string"},
					"bedrooms": {"type": ["number", "string"]},
					"property_size": {"type": ["number", "string"]}
				}
			}
		}
	}
}`

var compiledResponseSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(predictResponseSchema))
})

// validatePredictResponse checks body against predictResponseSchema.
func validatePredictResponse(body []byte) error {
	schema, err := compiledResponseSchema()
	if err != nil {
		return fmt.Errorf("compiling response schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("unexpected response shape: %s", strings.Join(errs, "; "))
	}

	return nil
}
