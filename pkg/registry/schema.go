// pkg/registry/schema.go
package registry

import "github.com/saadbelcaidx/connector-os-sub007/internal/common/validation"

// ActivityRegistry describes every job type this service can run, for
// process modelers wiring service tasks.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID           string                `json:"id"`
	DisplayName  string                `json:"displayName"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	TaskType     string                `json:"taskType"`
	InputSchema  validation.JSONSchema `json:"inputSchema"`
	OutputSchema validation.JSONSchema `json:"outputSchema"`
	ErrorCodes   []string              `json:"errorCodes"`
	Timeout      string                `json:"timeout"`
	Retries      int                   `json:"retries"`
	Tags         []string              `json:"tags,omitempty"`
}
