// internal/agent/audit_test.go
package agent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAuditPlan_Snapshot(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	recorder := NewAuditRecorderWithClock(fixedClock(at))

	planner := NewPlanner()
	card := DefaultRulecardCatalog().Get("employment_support")
	plan := planner.CreatePlan(employmentIntent(), testServices(),
		map[string]interface{}{"irsd_decile": 3}, nil, card)

	record := recorder.AuditPlan("I lost my job and need help with centrelink", plan)

	assert.Equal(t, "2026-03-14T09:26:53Z", record.Timestamp)
	assert.Equal(t, "I lost my job and need help with centrelink", record.UserInput)
	assert.Equal(t, "employment_support", record.Intent)
	assert.Equal(t, 2, record.ServicesFound)
	assert.Equal(t, ContextUsage{Seifa: true, Labour: false, Rulecard: true}, record.ContextUsed)
	assert.Equal(t, plan.Reasoning, record.Reasoning)
	assert.Equal(t, plan.Citations, record.Citations)
}

func TestAuditPlan_DataSourcesAlwaysComplete(t *testing.T) {
	recorder := NewAuditRecorder()
	planner := NewPlanner()

	// A plan that used no context at all still lists every canonical
	// source: DataSources documents potential provenance, ContextUsed
	// records what was actually consulted.
	plan := planner.CreatePlan(employmentIntent(), nil, nil, nil, nil)
	record := recorder.AuditPlan("query", plan)

	assert.Equal(t, []string{
		"ABS SEIFA 2021",
		"ABS Labour Force Statistics",
		"Government Service Directories",
		"Official Agency Websites",
	}, record.DataSources)
	assert.Equal(t, ContextUsage{}, record.ContextUsed)
}

func TestAuditPlan_TimestampIsUTC(t *testing.T) {
	recorder := NewAuditRecorder()
	plan := NewPlanner().CreatePlan(employmentIntent(), nil, nil, nil, nil)

	record := recorder.AuditPlan("query", plan)

	parsed, err := time.Parse(time.RFC3339Nano, record.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
	assert.WithinDuration(t, time.Now().UTC(), parsed, 5*time.Second)
}

func TestAuditPlan_RecordsAreIsolated(t *testing.T) {
	recorder := NewAuditRecorder()
	plan := NewPlanner().CreatePlan(employmentIntent(), nil, nil, nil, nil)

	first := recorder.AuditPlan("query", plan)
	first.DataSources[0] = "tampered"

	second := recorder.AuditPlan("query", plan)
	assert.Equal(t, "ABS SEIFA 2021", second.DataSources[0])
}

func TestAuditRecord_SerializesLosslessly(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 123456789, time.UTC)
	recorder := NewAuditRecorderWithClock(fixedClock(at))
	plan := NewPlanner().CreatePlan(employmentIntent(), testServices(), nil, nil, nil)

	record := recorder.AuditPlan("query", plan)

	raw, err := json.Marshal(record)
	require.NoError(t, err)

	var roundTripped AuditRecord
	require.NoError(t, json.Unmarshal(raw, &roundTripped))
	assert.Equal(t, record, roundTripped)
}
