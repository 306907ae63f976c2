// internal/workers/data-access/query-service-data/queries/services.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"govmate-workers/internal/models"
)

const (
	defaultRadiusKm = 25.0
	defaultLimit    = 5
)

// servicesNearbySQL computes great-circle distance in SQL so filtering
// and ordering stay in the database. acos is clamped to dodge rounding
// just above 1.0 for near-identical coordinates.
const servicesNearbySQL = `
	SELECT id, name, description, agency, address, suburb, state,
	       latitude, longitude, distance_km, phone, website, category
	FROM (
		SELECT id, name, description, agency, address, suburb, state,
		       latitude, longitude, phone, website, category,
		       6371 * acos(least(1.0,
		           cos(radians($1)) * cos(radians(latitude)) *
		           cos(radians(longitude) - radians($2)) +
		           sin(radians($1)) * sin(radians(latitude)))) AS distance_km
		FROM services
		WHERE ($3 = '' OR category = $3)
	) ranked
	WHERE distance_km <= $4
	ORDER BY distance_km
	LIMIT $5`

func ServicesNearby(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	lat, latOK := params["latitude"].(float64)
	lon, lonOK := params["longitude"].(float64)
	if !latOK || !lonOK {
		return nil, 0, 0, ErrMissingParam
	}

	radius, ok := params["radiusKm"].(float64)
	if !ok || radius <= 0 {
		radius = defaultRadiusKm
	}
	category, _ := params["category"].(string)
	limit, ok := params["limit"].(int)
	if !ok || limit <= 0 {
		limit = defaultLimit
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, servicesNearbySQL, lat, lon, category, radius, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []models.ServiceLocation
	for rows.Next() {
		var svc models.ServiceLocation
		err := rows.Scan(
			&svc.ID, &svc.Name, &svc.Description, &svc.Agency,
			&svc.Address, &svc.Suburb, &svc.State,
			&svc.Lat, &svc.Lon, &svc.DistanceKm,
			&svc.Phone, &svc.Website, &svc.Category,
		)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
