package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_UnmarshalJSON_DocumentID(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"underscore id", `{"_id":"p1","name":"Runner"}`, "p1"},
		{"plain id", `{"id":"p2"}`, "p2"},
		{"plain id wins", `{"id":"p3","_id":"other"}`, "p3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			require.NoError(t, json.Unmarshal([]byte(tt.data), &p))
			assert.Equal(t, tt.want, p.ID)
		})
	}
}

func TestCategory_UnmarshalJSON_DocumentID(t *testing.T) {
	var categories []Category
	require.NoError(t, json.Unmarshal([]byte(`[{"_id":"c1","name":"shoes"},{"id":"c2","name":"hats"}]`), &categories))

	assert.Equal(t, []Category{{ID: "c1", Name: "shoes"}, {ID: "c2", Name: "hats"}}, categories)
}

func TestProduct_Clone(t *testing.T) {
	// Arrange
	original := &Product{
		ID:       "p1",
		Stock:    map[string]int{"m": 5},
		Category: []string{"shoes"},
	}

	// Act
	cp := original.Clone()
	cp.Stock["m"] = 1
	cp.Category[0] = "hats"

	// Assert
	assert.Equal(t, 5, original.Stock["m"])
	assert.Equal(t, "shoes", original.Category[0])
	assert.Nil(t, (*Product)(nil).Clone())
}

func TestSearchQuery_Normalize(t *testing.T) {
	assert.Equal(t, 1, SearchQuery{Page: 0}.Normalize().Page)
	assert.Equal(t, 1, SearchQuery{Page: -3}.Normalize().Page)
	assert.Equal(t, SearchQuery{Page: 4, Name: "x"}, SearchQuery{Page: 4, Name: "x"}.Normalize())
	assert.Equal(t, SearchQuery{Page: 1}, DefaultSearchQuery())
}

func TestSortSizes(t *testing.T) {
	sizes := []string{"xxl", "m", "a", "xs", "l"}

	SortSizes(sizes)

	assert.Equal(t, []string{"xs", "m", "l", "a", "xxl"}, sizes)
}

func TestRequestStatus_Settled(t *testing.T) {
	assert.False(t, RequestStatus{Phase: PhaseIdle}.Settled())
	assert.False(t, RequestStatus{Phase: PhasePending}.Settled())
	assert.True(t, RequestStatus{Phase: PhaseFulfilled}.Settled())
	assert.True(t, RequestStatus{Phase: PhaseRejected, Error: "boom"}.Settled())
}

func TestNewNotification(t *testing.T) {
	a := NewNotification("Success add new Item", NotificationSuccess)
	b := NewNotification("Success add new Item", NotificationSuccess)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, NotificationSuccess, a.Status)
	assert.False(t, a.CreatedAt.IsZero())
}
