package introsend

import "github.com/saadbelcaidx/connector-os-sub007/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"introId", "demandIntroTo", "demandIntroBody", "supplyIntroTo", "supplyIntroBody"},
		Properties: map[string]validation.Property{
			"introId": {
				Type:        "string",
				Description: "Introduction identifier",
				MinLength:   intPtr(1),
			},
			"demandIntroTo": {
				Type:        "string",
				Description: "Demand contact email",
				MinLength:   intPtr(3),
				MaxLength:   intPtr(255),
			},
			"demandIntroBody": {
				Type:        "string",
				Description: "Body for the demand contact",
				MinLength:   intPtr(1),
			},
			"supplyIntroTo": {
				Type:        "string",
				Description: "Supply contact email",
				MinLength:   intPtr(3),
				MaxLength:   intPtr(255),
			},
			"supplyIntroBody": {
				Type:        "string",
				Description: "Body for the supply contact",
				MinLength:   intPtr(1),
			},
			"subject": {
				Type:        "string",
				Description: "Subject line override",
				MaxLength:   intPtr(200),
			},
			"demandMessageId": {Type: "string"},
			"supplyMessageId": {Type: "string"},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"introSent"},
		Properties: map[string]validation.Property{
			"introSent":       {Type: "boolean", Description: "Whether both emails went out"},
			"demandMessageId": {Type: "string", Description: "SES message ID for the demand email"},
			"supplyMessageId": {Type: "string", Description: "SES message ID for the supply email"},
			"sentAt":          {Type: "string", Description: "RFC 3339 send time"},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
