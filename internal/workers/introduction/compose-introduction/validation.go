package composeintroduction

import "github.com/saadbelcaidx/connector-os-sub007/internal/common/validation"

// Job variables carry the whole process scope, so unknown keys are allowed.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"demand"},
		Properties: map[string]validation.Property{
			"demand": {
				Type:        "object",
				Description: "Demand record to route",
				Properties: map[string]validation.Property{
					"company": {Type: "string"},
					"email":   {Type: "string"},
					"signals": {Type: "array"},
				},
				Required: []string{"company"},
			},
			"supplyPool": {
				Type:        "array",
				Description: "Candidate supply records",
				Items: &validation.Property{
					Type: "object",
				},
			},
			"supplySegment": {
				Type:        "string",
				Description: "Segment to load the supply pool from when supplyPool is absent",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(100),
			},
			"supplyQuery": {
				Type:        "string",
				Description: "Optional capability search used with supplySegment",
				MaxLength:   intPtr(200),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"introId", "introDropped"},
		Properties: map[string]validation.Property{
			"introId":          {Type: "string", Description: "Introduction identifier"},
			"introDropped":     {Type: "boolean", Description: "Whether the record was dropped"},
			"introDropReason":  {Type: "string", Description: "Drop reason code"},
			"introDropDetails": {Type: "string", Description: "Human readable drop details"},
			"demandIntroTo":    {Type: "string", Description: "Demand contact email"},
			"demandIntroBody":  {Type: "string", Description: "Body sent to the demand side"},
			"supplyIntroTo":    {Type: "string", Description: "Supply contact email"},
			"supplyIntroBody":  {Type: "string", Description: "Body sent to the supply side"},
			"introFitReason":   {Type: "string", Description: "Why the supply fits"},
			"introEdgeType":    {Type: "string", Description: "Detected edge type"},
			"introMatchScore":  {Type: "number", Description: "Winning match score"},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
