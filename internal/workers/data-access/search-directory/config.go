// internal/workers/data-access/search-directory/config.go
package searchdirectory

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
	MaxSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Index:   "service-directory",
		MaxSize: 50,
	}
}
