// internal/workers/data-access/search-directory/models.go
package searchdirectory

type Input struct {
	Text     string `json:"text"`
	State    string `json:"state,omitempty"`
	Suburb   string `json:"suburb,omitempty"`
	Category string `json:"category,omitempty"`
	From     int    `json:"from,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds, as reported by Elasticsearch
}
