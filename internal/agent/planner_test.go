// internal/agent/planner_test.go
package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govmate-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func testServices() []models.ServiceLocation {
	return []models.ServiceLocation{
		{
			ID:         1,
			Name:       "Centrelink Brisbane City",
			Agency:     "Services Australia",
			Suburb:     "Brisbane City",
			State:      "QLD",
			DistanceKm: 0.8,
			Category:   "employment",
		},
		{
			ID:         2,
			Name:       "Brisbane Jobactive Office",
			Agency:     "Department of Employment",
			Suburb:     "Fortitude Valley",
			State:      "QLD",
			DistanceKm: 2.4,
			Category:   "employment",
		},
	}
}

func employmentIntent() Intent {
	return Intent{
		Intent:     "employment_support",
		Confidence: 0.6,
		Slots:      Slots{Urgency: UrgencyNormal, SpecificService: "centrelink"},
	}
}

// ==========================
// Reasoning Tests
// ==========================

func TestCreatePlan_NoServicesNoContext(t *testing.T) {
	p := NewPlanner()

	plan := p.CreatePlan(employmentIntent(), nil, nil, nil, nil)

	assert.Equal(t, "Based on your query, I identified you need help with employment support.", plan.Reasoning)
	assert.Equal(t, []string{"Government service locations from official directories"}, plan.Citations)
}

func TestCreatePlan_FullContext(t *testing.T) {
	p := NewPlanner()
	seifa := map[string]interface{}{"irsd_decile": 3}
	labour := map[string]interface{}{"unemployment_rate": 4.5}

	plan := p.CreatePlan(employmentIntent(), testServices(), seifa, labour, nil)

	assert.Equal(t,
		"Based on your query, I identified you need help with employment support. "+
			"I found 2 relevant services near you. "+
			"Your area has a SEIFA decile of 3/10, which helps us understand local socio-economic context. "+
			"Current unemployment rate in your state is 4.5%.",
		plan.Reasoning)
}

func TestCreatePlan_ContextWithoutServices(t *testing.T) {
	p := NewPlanner()
	seifa := map[string]interface{}{"irsd_decile": 5}
	labour := map[string]interface{}{"unemployment_rate": 6.1}

	plan := p.CreatePlan(employmentIntent(), nil, seifa, labour, nil)

	// Context commentary is scoped to "services found": with none, the
	// reasoning stays a single sentence even though context is present.
	assert.Equal(t, "Based on your query, I identified you need help with employment support.", plan.Reasoning)

	// Citations are not scoped the same way.
	assert.Equal(t, []string{
		"SEIFA 2021 data from Australian Bureau of Statistics",
		"Labour Force data from Australian Bureau of Statistics",
		"Government service locations from official directories",
	}, plan.Citations)
}

func TestCreatePlan_MissingContextKeys(t *testing.T) {
	p := NewPlanner()

	plan := p.CreatePlan(employmentIntent(), testServices(),
		map[string]interface{}{}, map[string]interface{}{}, nil)

	assert.Contains(t, plan.Reasoning, "SEIFA decile of unknown/10")
	assert.Contains(t, plan.Reasoning, "unemployment rate in your state is unknown%")
}

// ==========================
// Citation Tests
// ==========================

func TestCreatePlan_CitationOrder(t *testing.T) {
	p := NewPlanner()
	seifa := map[string]interface{}{"irsd_decile": 3}
	labour := map[string]interface{}{"unemployment_rate": 4.5}

	plan := p.CreatePlan(employmentIntent(), testServices(), seifa, labour, nil)

	assert.Equal(t, []string{
		"Service: Centrelink Brisbane City - Services Australia",
		"Service: Brisbane Jobactive Office - Department of Employment",
		"SEIFA 2021 data from Australian Bureau of Statistics",
		"Labour Force data from Australian Bureau of Statistics",
		"Government service locations from official directories",
	}, plan.Citations)
}

func TestCreatePlan_CitationCountLaw(t *testing.T) {
	p := NewPlanner()
	seifa := map[string]interface{}{"irsd_decile": 3}
	labour := map[string]interface{}{"unemployment_rate": 4.5}

	tests := []struct {
		name     string
		services []models.ServiceLocation
		seifa    map[string]interface{}
		labour   map[string]interface{}
	}{
		{"nothing", nil, nil, nil},
		{"services only", testServices(), nil, nil},
		{"seifa only", nil, seifa, nil},
		{"labour only", nil, nil, labour},
		{"services and seifa", testServices(), seifa, nil},
		{"services and labour", testServices(), nil, labour},
		{"everything", testServices(), seifa, labour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := p.CreatePlan(employmentIntent(), tt.services, tt.seifa, tt.labour, nil)

			expected := len(tt.services) + 1
			if tt.seifa != nil {
				expected++
			}
			if tt.labour != nil {
				expected++
			}
			assert.Len(t, plan.Citations, expected)
		})
	}
}

// ==========================
// Pass-Through Tests
// ==========================

func TestCreatePlan_PassThrough(t *testing.T) {
	p := NewPlanner()
	services := testServices()
	seifa := map[string]interface{}{"irsd_decile": 3, "irsd_score": 921.0}
	labour := map[string]interface{}{"unemployment_rate": 4.5, "state": "QLD"}
	card := DefaultRulecardCatalog().Get("employment_support")
	require.NotNil(t, card)

	plan := p.CreatePlan(employmentIntent(), services, seifa, labour, card)

	assert.Equal(t, "employment_support", plan.Intent)
	assert.Equal(t, services, plan.Services)
	assert.Equal(t, seifa, plan.SeifaContext)
	assert.Equal(t, labour, plan.LabourContext)
	assert.Same(t, card, plan.Rulecard)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkCreatePlan(b *testing.B) {
	p := NewPlanner()
	intent := employmentIntent()
	services := testServices()
	seifa := map[string]interface{}{"irsd_decile": 3}
	labour := map[string]interface{}{"unemployment_rate": 4.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.CreatePlan(intent, services, seifa, labour, nil)
	}
}
