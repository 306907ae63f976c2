// internal/workers/data-access/search-directory/queries/search.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

type SearchResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

// Execute runs the directory search and flattens the hits to their
// _source documents.
func Execute(ctx context.Context, esClient *elasticsearch.Client, ds DirectorySearch) (*SearchResult, error) {
	req, err := BuildSearchRequest(ds)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed search response: missing hits")
	}

	result := &SearchResult{}
	if took, ok := r["took"].(float64); ok {
		result.Took = int64(took)
	}
	if total, ok := hits["total"].(map[string]interface{}); ok {
		if value, ok := total["value"].(float64); ok {
			result.TotalHits = int64(value)
		}
	}
	if maxScore, ok := hits["max_score"].(float64); ok {
		result.MaxScore = maxScore
	}

	if hitList, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range hitList {
			if source, ok := hit.(map[string]interface{})["_source"].(map[string]interface{}); ok {
				result.Data = append(result.Data, source)
			}
		}
	}

	return result, nil
}
