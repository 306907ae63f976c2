// internal/workers/enrich/geocode-address/config.go
package geocodeaddress

import "time"

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// CacheTTL is long by design: geocoding results for Australian
	// addresses are effectively static, and Nominatim's usage policy
	// asks clients to cache aggressively.
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:   "https://nominatim.openstreetmap.org",
		UserAgent: "govmate-workers/1.0 (service-locator)",
		Timeout:   10 * time.Second,
		CacheTTL:  30 * 24 * time.Hour,
	}
}
