// internal/workers/assist/synthesize-plan/config.go
package synthesizeplan

import "time"

type Config struct {
	Timeout time.Duration

	// PersistAudit controls whether audit records are written to
	// Postgres in addition to being returned as job variables.
	PersistAudit bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		PersistAudit: true,
	}
}
