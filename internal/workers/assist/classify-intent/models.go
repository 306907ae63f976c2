// internal/workers/assist/classify-intent/models.go
package classifyintent

import "govmate-workers/internal/agent"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Intent             agent.Intent `json:"intent"`
	ClassificationTime int64        `json:"classificationTime"` // milliseconds
}
