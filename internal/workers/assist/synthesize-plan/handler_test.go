package synthesizeplan

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"govmate-workers/internal/agent"
	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, db *sql.DB, persist bool) *Handler {
	return NewHandler(
		&Config{Timeout: 5 * time.Second, PersistAudit: persist},
		db,
		logger.NewZapAdapter(zaptest.NewLogger(t)),
	)
}

func createEmploymentInput() *Input {
	return &Input{
		Query: "I lost my job and need help with centrelink",
		Intent: agent.Intent{
			Intent:     "employment_support",
			Confidence: 0.6,
			Slots:      agent.Slots{Urgency: "normal", SpecificService: "centrelink"},
		},
		Services: []models.ServiceLocation{
			{Name: "Centrelink Brisbane", Agency: "Services Australia"},
		},
		SeifaContext:  map[string]interface{}{"irsd_decile": 4},
		LabourContext: map[string]interface{}{"unemployment_rate": 5.2},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FullContext(t *testing.T) {
	handler := createTestHandler(t, nil, false)

	output, err := handler.Execute(context.Background(), createEmploymentInput())
	require.NoError(t, err)

	plan := output.Plan
	assert.Equal(t, "employment_support", plan.Intent)
	require.NotNil(t, plan.Rulecard)
	assert.Equal(t, "Steps to get employment support and income assistance", plan.Rulecard.Description)

	// One citation per service, one per dataset, plus the directory line.
	require.Len(t, plan.Citations, 4)
	assert.Equal(t, "Service: Centrelink Brisbane - Services Australia", plan.Citations[0])
	assert.Equal(t, "SEIFA 2021 data from Australian Bureau of Statistics", plan.Citations[1])
	assert.Equal(t, "Labour Force data from Australian Bureau of Statistics", plan.Citations[2])
	assert.Equal(t, "Government service locations from official directories", plan.Citations[3])

	assert.Equal(t,
		"Based on your query, I identified you need help with employment support. "+
			"I found 1 relevant services near you. "+
			"Your area has a SEIFA decile of 4/10, which helps us understand local socio-economic context. "+
			"Current unemployment rate in your state is 5.2%.",
		plan.Reasoning)

	audit := output.Audit
	assert.Equal(t, "I lost my job and need help with centrelink", audit.UserInput)
	assert.Equal(t, 1, audit.ServicesFound)
	assert.True(t, audit.ContextUsed.Seifa)
	assert.True(t, audit.ContextUsed.Labour)
	assert.True(t, audit.ContextUsed.Rulecard)
	assert.Len(t, audit.DataSources, 4)
}

func TestHandler_Execute_NoServices(t *testing.T) {
	handler := createTestHandler(t, nil, false)

	input := createEmploymentInput()
	input.Services = nil

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	// Context commentary is suppressed when no services were found,
	// but the dataset citations still appear.
	assert.Equal(t,
		"Based on your query, I identified you need help with employment support.",
		output.Plan.Reasoning)
	require.Len(t, output.Plan.Citations, 3)
	assert.Equal(t, 0, output.Audit.ServicesFound)
}

func TestHandler_Execute_UnknownIntentHasNoRulecard(t *testing.T) {
	handler := createTestHandler(t, nil, false)

	input := createEmploymentInput()
	input.Intent.Intent = "general_info"

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Nil(t, output.Plan.Rulecard)
	assert.False(t, output.Audit.ContextUsed.Rulecard)
}

// ==========================
// Audit Persistence Tests
// ==========================

func TestHandler_Execute_PersistsAudit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO plan_audit`).
		WithArgs(sqlmock.AnyArg(), "I lost my job and need help with centrelink",
			"employment_support", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := createTestHandler(t, db, true)

	_, err = handler.Execute(context.Background(), createEmploymentInput())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AuditWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO plan_audit`).
		WillReturnError(errors.New("connection reset"))

	handler := createTestHandler(t, db, true)

	output, err := handler.Execute(context.Background(), createEmploymentInput())
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrAuditWriteFailed)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_MissingIntent(t *testing.T) {
	handler := createTestHandler(t, nil, false)

	output, err := handler.Execute(context.Background(), &Input{Query: "help"})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrMissingIntent)
}
