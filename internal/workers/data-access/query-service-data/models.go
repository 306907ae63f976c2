// internal/workers/data-access/query-service-data/models.go
package queryservicedata

import "govmate-workers/internal/models"

type Input struct {
	QueryType string  `json:"queryType"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	RadiusKm  float64 `json:"radiusKm,omitempty"`
	Category  string  `json:"category,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Suburb    string  `json:"suburb,omitempty"`
	State     string  `json:"state,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
	CacheHit           bool        `json:"cacheHit"`
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeServicesNearby = models.QueryTypeServicesNearby
	QueryTypeSeifaBySuburb  = models.QueryTypeSeifaBySuburb
	QueryTypeLabourByState  = models.QueryTypeLabourByState
)
