// internal/models/schema.go
package models

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var signalSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"type"},
	"properties": map[string]interface{}{
		"type":   map[string]interface{}{"type": "string", "minLength": 1},
		"value":  map[string]interface{}{"type": []interface{}{"string", "number", "null"}},
		"date":   map[string]interface{}{"type": []interface{}{"string", "null"}},
		"source": map[string]interface{}{"type": []interface{}{"string", "null"}},
	},
}

var demandSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"company", "signals"},
	"properties": map[string]interface{}{
		"domain":   map[string]interface{}{"type": "string"},
		"company":  map[string]interface{}{"type": "string"},
		"contact":  map[string]interface{}{"type": "string"},
		"email":    map[string]interface{}{"type": "string"},
		"title":    map[string]interface{}{"type": "string"},
		"industry": map[string]interface{}{"type": "string"},
		"signals": map[string]interface{}{
			"type":  "array",
			"items": signalSchema,
		},
		"metadata": map[string]interface{}{"type": []interface{}{"object", "null"}},
	},
}

var supplySchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"company"},
	"properties": map[string]interface{}{
		"domain":        map[string]interface{}{"type": "string"},
		"company":       map[string]interface{}{"type": "string"},
		"contact":       map[string]interface{}{"type": "string"},
		"email":         map[string]interface{}{"type": "string"},
		"title":         map[string]interface{}{"type": "string"},
		"capability":    map[string]interface{}{"type": "string"},
		"targetProfile": map[string]interface{}{"type": "string"},
		"metadata":      map[string]interface{}{"type": []interface{}{"object", "null"}},
	},
}

// ValidateDemandDocument checks a decoded JSON demand record (or a list of
// them) against the demand record shape.
func ValidateDemandDocument(doc interface{}) error {
	return validateDocument("demand", demandSchema, doc)
}

// ValidateSupplyDocument checks a decoded JSON supply record (or a list of
// them) against the supply record shape.
func ValidateSupplyDocument(doc interface{}) error {
	return validateDocument("supply", supplySchema, doc)
}

func validateDocument(kind string, schema map[string]interface{}, doc interface{}) error {
	if list, ok := doc.([]interface{}); ok {
		schema = map[string]interface{}{"type": "array", "items": schema}
		doc = list
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%s schema validation error: %w", kind, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%s record validation failed: %v", kind, errs)
	}
	return nil
}
