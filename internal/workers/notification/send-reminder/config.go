// internal/workers/notification/send-reminder/config.go
package sendreminder

import "time"

type Config struct {
	Timeout time.Duration

	EmailEnabled bool
	FromEmail    string

	SMSEnabled bool
	SenderID   string

	AWSRegion string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		FromEmail:    "noreply@govmate.example.au",
		SMSEnabled:   true,
		SenderID:     "GovMate",
		AWSRegion:    "ap-southeast-2",
	}
}
