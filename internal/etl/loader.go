// internal/etl/loader.go
package etl

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/common/validation"
)

var (
	ErrRowInvalid = errors.New("DATASET_VALIDATION_FAILED")
	ErrLoadFailed = errors.New("DATASET_LOAD_FAILED")
)

// LoadResult summarises one dataset load.
type LoadResult struct {
	Dataset  string `json:"dataset"`
	Path     string `json:"path"`
	Loaded   int    `json:"loaded"`
	Rejected int    `json:"rejected"`
}

// Loader validates and loads the reference datasets. Loads are
// all-or-nothing per dataset: the target table is truncated and
// repopulated inside one transaction.
type Loader struct {
	db     *sql.DB
	logger logger.Logger

	// StrictMode fails the whole load on the first invalid row instead
	// of skipping it.
	StrictMode bool
}

func NewLoader(db *sql.DB, log logger.Logger) *Loader {
	return &Loader{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "etl"}),
	}
}

// LoadServices loads the service directory CSV into the services table.
// Expected header: name,description,agency,address,suburb,state,
// latitude,longitude,phone,website,category
func (l *Loader) LoadServices(ctx context.Context, path string) (*LoadResult, error) {
	result := &LoadResult{Dataset: "services", Path: path}

	err := l.loadCSV(ctx, path, func(tx *sql.Tx, header []string, record []string) error {
		row, err := rowMap(header, record)
		if err != nil {
			return err
		}

		doc := map[string]interface{}{
			"name":        row["name"],
			"description": row["description"],
			"agency":      row["agency"],
			"address":     row["address"],
			"suburb":      strings.ToUpper(row["suburb"]),
			"state":       strings.ToUpper(row["state"]),
			"phone":       row["phone"],
			"website":     row["website"],
			"category":    row["category"],
		}
		if err := parseFloatField(doc, "latitude", row["latitude"]); err != nil {
			return err
		}
		if err := parseFloatField(doc, "longitude", row["longitude"]); err != nil {
			return err
		}

		if err := l.validateRow("services", serviceRowSchema, doc); err != nil {
			result.Rejected++
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO services (name, description, agency, address, suburb, state,
			                      latitude, longitude, phone, website, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			doc["name"], doc["description"], doc["agency"], doc["address"],
			doc["suburb"], doc["state"], doc["latitude"], doc["longitude"],
			doc["phone"], doc["website"], doc["category"],
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		result.Loaded++
		return nil
	}, "TRUNCATE services RESTART IDENTITY")

	if err != nil {
		return nil, err
	}
	return result, nil
}

// LoadSeifa loads the SEIFA CSV into the seifa table.
// Expected header: suburb,state,irsd_score,irsd_decile
func (l *Loader) LoadSeifa(ctx context.Context, path string) (*LoadResult, error) {
	result := &LoadResult{Dataset: "seifa", Path: path}

	err := l.loadCSV(ctx, path, func(tx *sql.Tx, header []string, record []string) error {
		row, err := rowMap(header, record)
		if err != nil {
			return err
		}

		doc := map[string]interface{}{
			"suburb": strings.ToUpper(row["suburb"]),
			"state":  strings.ToUpper(row["state"]),
		}
		if err := parseFloatField(doc, "irsd_score", row["irsd_score"]); err != nil {
			return err
		}
		if err := parseIntField(doc, "irsd_decile", row["irsd_decile"]); err != nil {
			return err
		}

		if err := l.validateRow("seifa", seifaRowSchema, doc); err != nil {
			result.Rejected++
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO seifa (suburb, state, irsd_score, irsd_decile)
			VALUES ($1, $2, $3, $4)`,
			doc["suburb"], doc["state"], doc["irsd_score"], doc["irsd_decile"],
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		result.Loaded++
		return nil
	}, "TRUNCATE seifa")

	if err != nil {
		return nil, err
	}
	return result, nil
}

// LoadLabour loads the labour force CSV into the labour_force table.
// Expected header: state,unemployment_rate,participation_rate,reference_period
func (l *Loader) LoadLabour(ctx context.Context, path string) (*LoadResult, error) {
	result := &LoadResult{Dataset: "labour_force", Path: path}

	err := l.loadCSV(ctx, path, func(tx *sql.Tx, header []string, record []string) error {
		row, err := rowMap(header, record)
		if err != nil {
			return err
		}

		doc := map[string]interface{}{
			"state":            strings.ToUpper(row["state"]),
			"reference_period": row["reference_period"],
		}
		if err := parseFloatField(doc, "unemployment_rate", row["unemployment_rate"]); err != nil {
			return err
		}
		if err := parseFloatField(doc, "participation_rate", row["participation_rate"]); err != nil {
			return err
		}

		if err := l.validateRow("labour_force", labourRowSchema, doc); err != nil {
			result.Rejected++
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO labour_force (state, unemployment_rate, participation_rate, reference_period)
			VALUES ($1, $2, $3, $4)`,
			doc["state"], doc["unemployment_rate"], doc["participation_rate"], doc["reference_period"],
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		result.Loaded++
		return nil
	}, "TRUNCATE labour_force")

	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadCSV drives one dataset load: open, truncate, insert per record,
// commit. Row handlers return ErrRowInvalid for schema rejects, which
// only aborts the load in strict mode.
func (l *Loader) loadCSV(ctx context.Context, path string, handle func(tx *sql.Tx, header, record []string) error, truncateSQL string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%w: read header: %v", ErrLoadFailed, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, truncateSQL); err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrLoadFailed, line, err)
		}
		line++

		if err := handle(tx, header, record); err != nil {
			if errors.Is(err, ErrRowInvalid) && !l.StrictMode {
				l.logger.Warn("skipping invalid row", map[string]interface{}{
					"path":  path,
					"line":  line,
					"error": err.Error(),
				})
				continue
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return nil
}

func (l *Loader) validateRow(dataset, schema string, doc map[string]interface{}) error {
	res, err := validation.ValidateDocument(schema, doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadFailed, dataset, err)
	}
	if !res.Valid {
		return fmt.Errorf("%w: %s: %s", ErrRowInvalid, dataset, strings.Join(res.GetErrorMessages(), "; "))
	}
	return nil
}

func rowMap(header, record []string) (map[string]string, error) {
	if len(record) != len(header) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrRowInvalid, len(header), len(record))
	}
	row := make(map[string]string, len(header))
	for i, col := range header {
		row[col] = strings.TrimSpace(record[i])
	}
	return row, nil
}

func parseFloatField(doc map[string]interface{}, field, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %q is not a number", ErrRowInvalid, field, raw)
	}
	doc[field] = v
	return nil
}

func parseIntField(doc map[string]interface{}, field, raw string) error {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %q is not an integer", ErrRowInvalid, field, raw)
	}
	doc[field] = v
	return nil
}
