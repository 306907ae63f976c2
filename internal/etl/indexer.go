// internal/etl/indexer.go
package etl

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/models"
)

// Indexer mirrors the services table into the Elasticsearch directory
// index consumed by the search-directory worker. Postgres stays the
// source of truth; the index is rebuilt, never patched.
type Indexer struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(es *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "etl-indexer"}),
	}
}

// IndexServices reads every service row and indexes it with the row ID
// as document ID, so reruns overwrite rather than duplicate.
func (ix *Indexer) IndexServices(ctx context.Context, db *sql.DB) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, agency, address, suburb, state,
		       latitude, longitude, phone, website, category
		FROM services`)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer rows.Close()

	indexed := 0
	for rows.Next() {
		var svc models.ServiceLocation
		err := rows.Scan(
			&svc.ID, &svc.Name, &svc.Description, &svc.Agency,
			&svc.Address, &svc.Suburb, &svc.State,
			&svc.Lat, &svc.Lon, &svc.Phone, &svc.Website, &svc.Category,
		)
		if err != nil {
			return indexed, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}

		if err := ix.indexOne(ctx, svc); err != nil {
			return indexed, err
		}
		indexed++
	}
	if err := rows.Err(); err != nil {
		return indexed, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	ix.logger.Info("directory index rebuilt", map[string]interface{}{
		"index":   ix.index,
		"indexed": indexed,
	})
	return indexed, nil
}

func (ix *Indexer) indexOne(ctx context.Context, svc models.ServiceLocation) error {
	doc := map[string]interface{}{
		"name":        svc.Name,
		"description": svc.Description,
		"agency":      svc.Agency,
		"address":     svc.Address,
		"suburb":      svc.Suburb,
		"state":       svc.State,
		"location":    map[string]float64{"lat": svc.Lat, "lon": svc.Lon},
		"phone":       svc.Phone,
		"website":     svc.Website,
		"category":    svc.Category,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      ix.index,
		DocumentID: strconv.Itoa(svc.ID),
		Body:       strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, ix.es)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: index service %d: %s", ErrLoadFailed, svc.ID, res.Status())
	}
	return nil
}
