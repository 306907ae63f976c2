// internal/workers/assist/synthesize-plan/models.go
package synthesizeplan

import (
	"govmate-workers/internal/agent"
	"govmate-workers/internal/models"
)

type Input struct {
	Query         string                   `json:"query"`
	Intent        agent.Intent             `json:"intent"`
	Services      []models.ServiceLocation `json:"services,omitempty"`
	SeifaContext  map[string]interface{}   `json:"seifaContext,omitempty"`
	LabourContext map[string]interface{}   `json:"labourContext,omitempty"`
}

type Output struct {
	Plan          agent.Plan        `json:"plan"`
	Audit         agent.AuditRecord `json:"audit"`
	SynthesisTime int64             `json:"synthesisTime"` // milliseconds
}
