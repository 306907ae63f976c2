// internal/models/service_location.go
package models

// ServiceLocation is one government service location from the directory
// dataset. Rows are produced pre-filtered and pre-sorted by ascending
// DistanceKm by the data-access worker; downstream consumers never
// re-sort or mutate them.
type ServiceLocation struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Agency      string  `json:"agency"`
	Address     string  `json:"address"`
	Suburb      string  `json:"suburb"`
	State       string  `json:"state"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DistanceKm  float64 `json:"distanceKm"`
	Phone       string  `json:"phone,omitempty"`
	Website     string  `json:"website,omitempty"`
	Category    string  `json:"category"`
}

// SeifaRecord is one suburb's socio-economic index row.
type SeifaRecord struct {
	Suburb     string  `json:"suburb"`
	State      string  `json:"state"`
	IrsdScore  float64 `json:"irsd_score"`
	IrsdDecile int     `json:"irsd_decile"`
}

// LabourRecord is one state's labour-force statistics row.
type LabourRecord struct {
	State             string  `json:"state"`
	UnemploymentRate  float64 `json:"unemployment_rate"`
	ParticipationRate float64 `json:"participation_rate"`
	ReferencePeriod   string  `json:"reference_period"`
}
