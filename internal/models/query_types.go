// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeServicesNearby QueryType = "services_nearby"
	QueryTypeSeifaBySuburb  QueryType = "seifa_by_suburb"
	QueryTypeLabourByState  QueryType = "labour_by_state"
)
