package agent

import (
	"fmt"
	"strings"

	"govmate-workers/internal/models"
)

// Planner combines a classified intent with caller-fetched evidence into
// a Plan. It holds no state; every call is independent.
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// CreatePlan builds a Plan from the intent and whatever context the
// caller could resolve. Every context argument is optional and may be
// absent independently; the plan is valid in all combinations.
func (p *Planner) CreatePlan(intent Intent, services []models.ServiceLocation, seifaContext, labourContext map[string]interface{}, rulecard *Rulecard) Plan {
	return Plan{
		Intent:        intent.Intent,
		Services:      services,
		SeifaContext:  seifaContext,
		LabourContext: labourContext,
		Rulecard:      rulecard,
		Citations:     p.generateCitations(services, seifaContext, labourContext),
		Reasoning:     p.generateReasoning(intent, services, seifaContext, labourContext),
	}
}

// generateReasoning emits its sentences in a fixed order, each gated on
// its precondition. The SEIFA and labour sentences are scoped to
// "services found": context present with zero services says nothing.
func (p *Planner) generateReasoning(intent Intent, services []models.ServiceLocation, seifaContext, labourContext map[string]interface{}) string {
	parts := []string{
		fmt.Sprintf("Based on your query, I identified you need help with %s.",
			strings.ReplaceAll(intent.Intent, "_", " ")),
	}

	if len(services) > 0 {
		parts = append(parts, fmt.Sprintf("I found %d relevant services near you.", len(services)))

		if seifaContext != nil {
			decile := contextValue(seifaContext, "irsd_decile")
			parts = append(parts, fmt.Sprintf("Your area has a SEIFA decile of %v/10, which helps us understand local socio-economic context.", decile))
		}

		if labourContext != nil {
			unemployment := contextValue(labourContext, "unemployment_rate")
			parts = append(parts, fmt.Sprintf("Current unemployment rate in your state is %v%%.", unemployment))
		}
	}

	return strings.Join(parts, " ")
}

// generateCitations appends in contract order: one line per service, then
// dataset provenance, then the fixed directory catch-all. No dedupe.
func (p *Planner) generateCitations(services []models.ServiceLocation, seifaContext, labourContext map[string]interface{}) []string {
	var citations []string

	for _, svc := range services {
		citations = append(citations, fmt.Sprintf("Service: %s - %s", svc.Name, svc.Agency))
	}

	if seifaContext != nil {
		citations = append(citations, "SEIFA 2021 data from Australian Bureau of Statistics")
	}
	if labourContext != nil {
		citations = append(citations, "Labour Force data from Australian Bureau of Statistics")
	}

	citations = append(citations, "Government service locations from official directories")

	return citations
}

func contextValue(ctx map[string]interface{}, key string) interface{} {
	if v, ok := ctx[key]; ok {
		return v
	}
	return "unknown"
}
