// internal/workers/data-access/query-service-data/queries/contexts.go
package queries

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"govmate-workers/internal/models"
)

// SeifaBySuburb looks up one suburb's socio-economic index row. Suburbs
// are stored upper-case in the seifa table, so the lookup normalises.
func SeifaBySuburb(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	suburb, ok := params["suburb"].(string)
	if !ok || suburb == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var row models.SeifaRecord
	err := db.QueryRowContext(ctx, `
		SELECT suburb, state, irsd_score, irsd_decile
		FROM seifa
		WHERE suburb = upper($1)`, strings.TrimSpace(suburb)).Scan(
		&row.Suburb, &row.State, &row.IrsdScore, &row.IrsdDecile,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"suburb":      row.Suburb,
		"state":       row.State,
		"irsd_score":  row.IrsdScore,
		"irsd_decile": row.IrsdDecile,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

// LabourByState returns the latest labour-force row for a state.
func LabourByState(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	state, ok := params["state"].(string)
	if !ok || state == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var row models.LabourRecord
	err := db.QueryRowContext(ctx, `
		SELECT state, unemployment_rate, participation_rate, reference_period
		FROM labour_force
		WHERE state = upper($1)
		ORDER BY reference_period DESC
		LIMIT 1`, strings.TrimSpace(state)).Scan(
		&row.State, &row.UnemploymentRate, &row.ParticipationRate, &row.ReferencePeriod,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"state":              row.State,
		"unemployment_rate":  row.UnemploymentRate,
		"participation_rate": row.ParticipationRate,
		"reference_period":   row.ReferencePeriod,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
