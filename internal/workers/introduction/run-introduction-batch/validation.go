package runintroductionbatch

import "github.com/saadbelcaidx/connector-os-sub007/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"demandSegment", "supplySegment"},
		Properties: map[string]validation.Property{
			"demandSegment": {
				Type:        "string",
				Description: "Segment of demand records to route",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(100),
			},
			"supplySegment": {
				Type:        "string",
				Description: "Segment of supply records to match against",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(100),
			},
			"supplyQuery": {
				Type:        "string",
				Description: "Optional capability search over the supply index",
				MaxLength:   intPtr(200),
			},
			"notify": {
				Type:        "boolean",
				Description: "Publish a batch summary when done",
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"batchId", "batchTotal", "batchComposed", "batchDropped"},
		Properties: map[string]validation.Property{
			"batchId":               {Type: "string"},
			"batchTotal":            {Type: "integer", Minimum: floatPtr(0)},
			"batchComposed":         {Type: "integer", Minimum: floatPtr(0)},
			"batchDropped":          {Type: "integer", Minimum: floatPtr(0)},
			"batchDropReasons":      {Type: "object"},
			"introductions":         {Type: "array", Items: &validation.Property{Type: "object"}},
			"batchSummaryMessageId": {Type: "string"},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
