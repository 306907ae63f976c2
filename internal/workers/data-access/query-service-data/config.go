// internal/workers/data-access/query-service-data/config.go
package queryservicedata

import "time"

type Config struct {
	Timeout time.Duration

	// CacheTTL applies to the seifa/labour context lookups only;
	// services_nearby results vary per coordinate and are not cached.
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		CacheTTL: 10 * time.Minute,
	}
}
