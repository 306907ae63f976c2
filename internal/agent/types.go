// Package agent holds the deterministic intent-classification and
// plan-synthesis engine. It is purely computational: no network, disk or
// database access happens here, and every table it consults is built once
// at construction time, so a single instance is safe for concurrent use.
package agent

import "govmate-workers/internal/models"

// Intent is the result of classifying one user query.
type Intent struct {
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Slots      Slots    `json:"slots"`
	Tags       []string `json:"tags"`
}

// Slots are query attributes extracted independently of which intent won.
type Slots struct {
	Location        string `json:"location,omitempty"`
	Urgency         string `json:"urgency"`
	SpecificService string `json:"specificService,omitempty"`
}

// Rulecard is a canned procedural checklist for one intent.
type Rulecard struct {
	Description string   `json:"description"`
	Checklist   []string `json:"checklist"`
	Citations   []string `json:"citations"`
}

// Plan bundles the classified intent with the evidence the caller fetched
// for it. Services, contexts and the rulecard pass through unmodified;
// citations and reasoning are generated here.
type Plan struct {
	Intent        string                   `json:"intent"`
	Services      []models.ServiceLocation `json:"services"`
	SeifaContext  map[string]interface{}   `json:"seifaContext,omitempty"`
	LabourContext map[string]interface{}   `json:"labourContext,omitempty"`
	Rulecard      *Rulecard                `json:"rulecard,omitempty"`
	Citations     []string                 `json:"citations"`
	Reasoning     string                   `json:"reasoning"`
}

// ContextUsage flags which optional inputs actually fed a plan.
type ContextUsage struct {
	Seifa    bool `json:"seifa"`
	Labour   bool `json:"labour"`
	Rulecard bool `json:"rulecard"`
}

// AuditRecord is a write-once snapshot of one classification-and-plan
// cycle, consumed by the structured-logging collaborator.
type AuditRecord struct {
	Timestamp     string       `json:"timestamp"`
	UserInput     string       `json:"userInput"`
	Intent        string       `json:"intent"`
	ServicesFound int          `json:"servicesFound"`
	ContextUsed   ContextUsage `json:"contextUsed"`
	Reasoning     string       `json:"reasoning"`
	Citations     []string     `json:"citations"`
	DataSources   []string     `json:"dataSources"`
}

const (
	UrgencyHigh   = "high"
	UrgencyNormal = "normal"

	// IntentGeneralInfo is the fallback category when nothing scores
	// above the floor.
	IntentGeneralInfo = "general_info"
)
