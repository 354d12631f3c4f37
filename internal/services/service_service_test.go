package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chazonBack/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeServiceFilter(t *testing.T) {
	tests := []struct {
		name string
		in   models.ServiceFilter
		want models.ServiceFilter
	}{
		{
			name: "defaults applied to empty filter",
			in:   models.ServiceFilter{},
			want: models.ServiceFilter{Page: 1, Limit: defaultPageSize},
		},
		{
			name: "negative page and limit clamped",
			in:   models.ServiceFilter{Page: -3, Limit: -1},
			want: models.ServiceFilter{Page: 1, Limit: defaultPageSize},
		},
		{
			name: "oversized limit clamped to max",
			in:   models.ServiceFilter{Page: 2, Limit: 5000},
			want: models.ServiceFilter{Page: 2, Limit: maxPageSize},
		},
		{
			name: "negative prices dropped",
			in:   models.ServiceFilter{Page: 1, Limit: 9, MinPrice: floatPtr(-5), MaxPrice: floatPtr(-1)},
			want: models.ServiceFilter{Page: 1, Limit: 9},
		},
		{
			name: "unknown sort key dropped",
			in:   models.ServiceFilter{Page: 1, Limit: 9, SortBy: "rating_desc"},
			want: models.ServiceFilter{Page: 1, Limit: 9},
		},
		{
			name: "valid sort key kept",
			in:   models.ServiceFilter{Page: 1, Limit: 9, SortBy: models.SortPriceAsc},
			want: models.ServiceFilter{Page: 1, Limit: 9, SortBy: models.SortPriceAsc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeServiceFilter(tt.in))
		})
	}
}

func TestPaginationFor(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
	}{
		{"empty result", 1, 9, 0, 0},
		{"single item", 1, 9, 1, 1},
		{"exactly one page", 1, 9, 9, 1},
		{"one over a page", 1, 9, 10, 2},
		{"three full pages", 2, 9, 27, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginationFor(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.limit, got.Limit)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.totalPages, got.TotalPages)
		})
	}
}
