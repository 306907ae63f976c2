package queries

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchRequest_Validation(t *testing.T) {
	_, err := BuildSearchRequest(DirectorySearch{Text: "help"})
	assert.ErrorIs(t, err, ErrMissingIndex)

	_, err = BuildSearchRequest(DirectorySearch{Index: "service-directory"})
	assert.ErrorIs(t, err, ErrMissingText)

	req, err := BuildSearchRequest(DirectorySearch{
		Index: "service-directory",
		Text:  "food bank",
		From:  0,
		Size:  10,
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"service-directory"}, req.Index)
}

func TestBuildSearchRequest_FiltersUppercaseLocations(t *testing.T) {
	req, err := BuildSearchRequest(DirectorySearch{
		Index:    "service-directory",
		Text:     "emergency housing",
		State:    "qld",
		Suburb:   "inala",
		Category: "housing",
		Size:     10,
	})
	require.NoError(t, err)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	require.Len(t, filters, 3)

	stateTerm := filters[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "QLD", stateTerm["state"])

	suburbTerm := filters[1].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "INALA", suburbTerm["suburb"])

	categoryTerm := filters[2].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "housing", categoryTerm["category"])
}
