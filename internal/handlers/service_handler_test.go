package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chazonBack/internal/models"
)

func TestParseServiceFilter(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/services?category=cleaning&search=deep&min_price=50&max_price=200&sort_by=price_asc&page=2&limit=20", nil)

	f := parseServiceFilter(r)
	assert.Equal(t, "cleaning", f.CategorySlug)
	assert.Equal(t, "deep", f.Search)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 50.0, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 200.0, *f.MaxPrice)
	assert.Equal(t, models.SortPriceAsc, f.SortBy)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 20, f.Limit)
}

func TestParseServiceFilter_MalformedValuesDropped(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/services?min_price=cheap&max_price=&page=abc&limit=-", nil)

	f := parseServiceFilter(r)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Zero(t, f.Page)
	assert.Zero(t, f.Limit)
}
