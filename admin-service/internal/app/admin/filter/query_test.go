package filter

import (
	"testing"

	"catalogadmin/admin-service/internal/app/admin/entity"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want entity.SearchQuery
	}{
		{"empty", "", entity.SearchQuery{Page: 1}},
		{"page and name", "page=3&name=boot", entity.SearchQuery{Page: 3, Name: "boot"}},
		{"leading question mark", "?page=2", entity.SearchQuery{Page: 2}},
		{"name only", "name=red%20shoe", entity.SearchQuery{Page: 1, Name: "red shoe"}},
		{"page not a number", "page=abc", entity.SearchQuery{Page: 1}},
		{"page zero", "page=0", entity.SearchQuery{Page: 1}},
		{"negative page", "page=-4&name=x", entity.SearchQuery{Page: 1, Name: "x"}},
		{"unknown keys ignored", "page=2&sort=asc", entity.SearchQuery{Page: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.raw))
		})
	}
}

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query entity.SearchQuery
		want  string
	}{
		{"empty name omitted", entity.SearchQuery{Page: 3, Name: ""}, "page=3"},
		{"page first", entity.SearchQuery{Page: 1, Name: "boot"}, "page=1&name=boot"},
		{"name escaped", entity.SearchQuery{Page: 2, Name: "red shoe&co"}, "page=2&name=red+shoe%26co"},
		{"page normalized", entity.SearchQuery{Page: 0}, "page=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeQuery(tt.query))
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	query := entity.SearchQuery{Page: 5, Name: "süß & co"}
	assert.Equal(t, query, ParseQuery(EncodeQuery(query)))
}
