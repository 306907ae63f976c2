// internal/workers/enrich/geocode-address/models.go
package geocodeaddress

type Input struct {
	Address string `json:"address"`
}

type Output struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
	CacheHit    bool    `json:"cacheHit"`
}

// nominatimResult is one entry of the Nominatim /search response.
// Coordinates arrive as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
