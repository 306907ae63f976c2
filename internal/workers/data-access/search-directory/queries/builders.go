// internal/workers/data-access/search-directory/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex = errors.New("index name is required")
	ErrMissingText  = errors.New("search text is required")
)

// DirectorySearch describes one free-text search over the service
// directory index.
type DirectorySearch struct {
	Index    string
	Text     string
	State    string
	Suburb   string
	Category string
	From     int
	Size     int
}

// BuildSearchRequest builds the directory search. Free text scores name
// highest, then description, with agency and category trailing; state
// and category narrow via exact filters so they never affect scoring.
func BuildSearchRequest(ds DirectorySearch) (*esapi.SearchRequest, error) {
	if ds.Index == "" {
		return nil, ErrMissingIndex
	}
	if strings.TrimSpace(ds.Text) == "" {
		return nil, ErrMissingText
	}

	mustClauses := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  ds.Text,
				"fields": []string{"name^3", "description^2", "agency", "category"},
				"type":   "best_fields",
			},
		},
	}

	filterClauses := []interface{}{}
	if ds.State != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"state": strings.ToUpper(ds.State)},
		})
	}
	if ds.Suburb != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"suburb": strings.ToUpper(ds.Suburb)},
		})
	}
	if ds.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": ds.Category},
		})
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   mustClauses,
				"filter": filterClauses,
			},
		},
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{ds.Index},
		Body:  strings.NewReader(string(body)),
		From:  &ds.From,
		Size:  &ds.Size,
	}

	return &req, nil
}
