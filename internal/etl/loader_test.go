package etl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"govmate-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func writeTempCSV(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ==========================
// SEIFA Loading Tests
// ==========================

func TestLoader_LoadSeifa_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	path := writeTempCSV(t, "seifa.csv",
		"suburb,state,irsd_score,irsd_decile\n"+
			"Inala,QLD,821,1\n"+
			"Ascot,QLD,1104,10\n")

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE seifa`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO seifa`).
		WithArgs("INALA", "QLD", 821.0, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO seifa`).
		WithArgs("ASCOT", "QLD", 1104.0, 10).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	result, err := loader.LoadSeifa(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 0, result.Rejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_LoadSeifa_SkipsInvalidRows(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// Decile 11 is out of range; the row is rejected but the load continues.
	path := writeTempCSV(t, "seifa.csv",
		"suburb,state,irsd_score,irsd_decile\n"+
			"Inala,QLD,821,11\n"+
			"Ascot,QLD,1104,10\n")

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE seifa`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO seifa`).
		WithArgs("ASCOT", "QLD", 1104.0, 10).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	result, err := loader.LoadSeifa(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, 1, result.Rejected)
}

func TestLoader_LoadSeifa_StrictModeFailsOnInvalidRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	path := writeTempCSV(t, "seifa.csv",
		"suburb,state,irsd_score,irsd_decile\n"+
			"Inala,QLD,821,11\n")

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE seifa`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	loader.StrictMode = true

	result, err := loader.LoadSeifa(context.Background(), path)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRowInvalid)
}

// ==========================
// Labour Force Loading Tests
// ==========================

func TestLoader_LoadLabour_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	path := writeTempCSV(t, "labour.csv",
		"state,unemployment_rate,participation_rate,reference_period\n"+
			"QLD,4.3,66.8,2025-06\n")

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE labour_force`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO labour_force`).
		WithArgs("QLD", 4.3, 66.8, "2025-06").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	result, err := loader.LoadLabour(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
}

func TestLoader_LoadLabour_RejectsBadPeriodFormat(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	path := writeTempCSV(t, "labour.csv",
		"state,unemployment_rate,participation_rate,reference_period\n"+
			"QLD,4.3,66.8,June 2025\n")

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE labour_force`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	result, err := loader.LoadLabour(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Loaded)
	assert.Equal(t, 1, result.Rejected)
}

// ==========================
// Services Loading Tests
// ==========================

func TestLoader_LoadServices_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	path := writeTempCSV(t, "services.csv",
		"name,description,agency,address,suburb,state,latitude,longitude,phone,website,category\n"+
			"Centrelink Brisbane,Employment services,Services Australia,123 Queen St,Brisbane,QLD,-27.47,153.02,132850,https://example.gov.au,employment\n")

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE services`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO services`).
		WithArgs("Centrelink Brisbane", "Employment services", "Services Australia",
			"123 Queen St", "BRISBANE", "QLD", -27.47, 153.02,
			"132850", "https://example.gov.au", "employment").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	result, err := loader.LoadServices(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_LoadServices_RejectsCoordinatesOutsideAustralia(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	path := writeTempCSV(t, "services.csv",
		"name,description,agency,address,suburb,state,latitude,longitude,phone,website,category\n"+
			"Somewhere Else,Test,Agency,1 Road,Town,QLD,51.5,-0.12,,,misc\n")

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE services`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	result, err := loader.LoadServices(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Loaded)
	assert.Equal(t, 1, result.Rejected)
}

func TestLoader_LoadServices_MissingFile(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	loader := NewLoader(db, logger.NewZapAdapter(zaptest.NewLogger(t)))
	_, err = loader.LoadServices(context.Background(), "/nonexistent/services.csv")
	assert.ErrorIs(t, err, ErrLoadFailed)
}

// ==========================
// Provenance Tests
// ==========================

func TestProvenance_BuildAndWrite(t *testing.T) {
	results := []*LoadResult{
		{Dataset: "seifa", Path: "seifa.csv", Loaded: 100, Rejected: 2},
		{Dataset: "labour_force", Path: "labour.csv", Loaded: 8},
	}

	p := BuildProvenance(results)
	assert.NotEmpty(t, p.GeneratedAt)
	require.Len(t, p.Datasets, 2)
	assert.Equal(t, "seifa", p.Datasets[0].Dataset)
	assert.Equal(t, 2, p.Datasets[0].Rejected)

	path := filepath.Join(t.TempDir(), "provenance.json")
	require.NoError(t, WriteProvenance(path, p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"generatedAt"`)
	assert.Contains(t, string(data), `"labour_force"`)
}
