package tinyvecdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalFilterJSON(t *testing.T, filterJSON, metadataJSON string) bool {
	t.Helper()
	filter, err := parseFilter([]byte(filterJSON))
	require.NoError(t, err)
	ok, err := evalFilter(filter, json.RawMessage(metadataJSON))
	require.NoError(t, err)
	return ok
}

func TestEvalFilterOperators(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		metadata string
		want     bool
	}{
		{"eq match", `{"brand":{"$eq":"Pear"}}`, `{"brand":"Pear"}`, true},
		{"eq mismatch", `{"brand":{"$eq":"Pear"}}`, `{"brand":"Orange"}`, false},
		{"eq type mismatch never coerces", `{"year":{"$eq":"2020"}}`, `{"year":2020}`, false},
		{"ne on present field", `{"brand":{"$ne":"Pear"}}`, `{"brand":"Orange"}`, true},
		{"ne on missing field is true", `{"brand":{"$ne":"Pear"}}`, `{}`, true},
		{"gt numeric", `{"year":{"$gt":2020}}`, `{"year":2021}`, true},
		{"gte numeric boundary", `{"year":{"$gte":2020}}`, `{"year":2020}`, true},
		{"lt numeric", `{"year":{"$lt":2020}}`, `{"year":2021}`, false},
		{"numeric comparison never coerces strings", `{"year":{"$gt":2020}}`, `{"year":"2021"}`, false},
		{"exists true", `{"brand":{"$exists":true}}`, `{"brand":"Pear"}`, true},
		{"exists false on missing field", `{"brand":{"$exists":false}}`, `{}`, true},
		{"exists false on present field", `{"brand":{"$exists":false}}`, `{"brand":"Pear"}`, false},
		{"in scalar field", `{"brand":{"$in":["Pear","Orange"]}}`, `{"brand":"Pear"}`, true},
		{"in scalar field miss", `{"brand":{"$in":["Orange"]}}`, `{"brand":"Pear"}`, false},
		{"nin scalar field", `{"brand":{"$nin":["Orange"]}}`, `{"brand":"Pear"}`, true},
		{"in array field intersection", `{"tags":{"$in":["ai","ml"]}}`, `{"tags":["ml","db"]}`, true},
		{"in array field no intersection", `{"tags":{"$in":["ai"]}}`, `{"tags":["ml","db"]}`, false},
		{"nested object traversal", `{"specs":{"storage":{"$lt":200}}}`, `{"specs":{"storage":128}}`, true},
		{"nested object missing intermediate is false", `{"specs":{"storage":{"$lt":200}}}`, `{}`, false},
		{"implicit conjunction across keys", `{"brand":{"$eq":"Pear"},"year":{"$gte":2020}}`, `{"brand":"Pear","year":2024}`, true},
		{"implicit conjunction short-circuits", `{"brand":{"$eq":"Pear"},"year":{"$gte":2020}}`, `{"brand":"Pear","year":2019}`, false},
		{"empty filter matches everything", `{}`, `{"anything":true}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evalFilterJSON(t, tt.filter, tt.metadata))
		})
	}
}

func TestEvalFilterRejectsMalformedFilter(t *testing.T) {
	filter, err := parseFilter([]byte(`{"brand":{"$unknown":"x"}}`))
	require.NoError(t, err)
	_, err = evalFilter(filter, json.RawMessage(`{"brand":"Pear"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestParseFilterEmptyIsNil(t *testing.T) {
	filter, err := parseFilter(nil)
	require.NoError(t, err)
	assert.Nil(t, filter)
}
