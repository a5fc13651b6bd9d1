package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name      string
		params    PaginationParams
		wantItems []int
		wantPages int
		wantNext  bool
	}{
		{name: "first page", params: PaginationParams{Page: 1, PerPage: 2}, wantItems: []int{1, 2}, wantPages: 3, wantNext: true},
		{name: "last page", params: PaginationParams{Page: 3, PerPage: 2}, wantItems: []int{5}, wantPages: 3},
		{name: "past the end", params: PaginationParams{Page: 9, PerPage: 2}, wantItems: []int{}, wantPages: 3},
		{name: "defaults", params: PaginationParams{}, wantItems: []int{1, 2, 3, 4, 5}, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			got, p := Page(items, &params)
			assert.Equal(t, tt.wantItems, got)
			assert.Equal(t, int64(5), p.Total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNext)
		})
	}
}
