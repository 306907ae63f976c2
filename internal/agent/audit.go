package agent

import "time"

// canonicalDataSources documents the provenance categories this engine
// can draw on. The audit record always lists all four, whether or not a
// given plan used them; the per-plan truth is in ContextUsed.
var canonicalDataSources = []string{
	"ABS SEIFA 2021",
	"ABS Labour Force Statistics",
	"Government Service Directories",
	"Official Agency Websites",
}

// AuditRecorder snapshots classification-and-plan cycles for the
// append-only audit log.
type AuditRecorder struct {
	now func() time.Time
}

func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{now: time.Now}
}

// NewAuditRecorderWithClock injects the time source, for tests.
func NewAuditRecorderWithClock(now func() time.Time) *AuditRecorder {
	return &AuditRecorder{now: now}
}

// AuditPlan builds an immutable snapshot of one cycle. Pure construction:
// nothing is written anywhere; the caller hands the record to the
// logging collaborator.
func (r *AuditRecorder) AuditPlan(userInput string, plan Plan) AuditRecord {
	sources := make([]string, len(canonicalDataSources))
	copy(sources, canonicalDataSources)

	return AuditRecord{
		Timestamp:     r.now().UTC().Format(time.RFC3339Nano),
		UserInput:     userInput,
		Intent:        plan.Intent,
		ServicesFound: len(plan.Services),
		ContextUsed: ContextUsage{
			Seifa:    plan.SeifaContext != nil,
			Labour:   plan.LabourContext != nil,
			Rulecard: plan.Rulecard != nil,
		},
		Reasoning:   plan.Reasoning,
		Citations:   plan.Citations,
		DataSources: sources,
	}
}
