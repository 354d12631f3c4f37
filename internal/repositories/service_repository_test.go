package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chazonBack/internal/models"
)

func TestBuildServiceListWhere(t *testing.T) {
	min := 50.0
	max := 200.0

	tests := []struct {
		name       string
		filter     models.ServiceFilter
		wantClause string
		wantParams []interface{}
	}{
		{
			name:       "no filters only active",
			filter:     models.ServiceFilter{},
			wantClause: " WHERE s.is_active",
			wantParams: nil,
		},
		{
			name:       "category only",
			filter:     models.ServiceFilter{CategorySlug: "cleaning"},
			wantClause: " WHERE s.is_active AND LOWER(c.slug) = LOWER($1)",
			wantParams: []interface{}{"cleaning"},
		},
		{
			name:       "search shares one placeholder",
			filter:     models.ServiceFilter{Search: "plumb"},
			wantClause: " WHERE s.is_active AND (s.title ILIKE $1 OR s.description ILIKE $1)",
			wantParams: []interface{}{"%plumb%"},
		},
		{
			name:   "all filters numbered in order",
			filter: models.ServiceFilter{CategorySlug: "cleaning", Search: "deep", MinPrice: &min, MaxPrice: &max},
			wantClause: " WHERE s.is_active AND LOWER(c.slug) = LOWER($1)" +
				" AND (s.title ILIKE $2 OR s.description ILIKE $2)" +
				" AND s.price >= $3 AND s.price <= $4",
			wantParams: []interface{}{"cleaning", "%deep%", min, max},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, params := buildServiceListWhere(tt.filter)
			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestServiceListOrder(t *testing.T) {
	assert.Contains(t, serviceListOrder(models.SortPriceAsc), "s.price ASC")
	assert.Contains(t, serviceListOrder(models.SortPriceDesc), "s.price DESC")
	assert.Contains(t, serviceListOrder(""), "s.created_at DESC")
	assert.Contains(t, serviceListOrder("bogus"), "s.created_at DESC")
}

func TestGetServicesWithFilters_ReturnsPageAndTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &ServiceRepository{DB: db}
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).+FROM services s`).
		WithArgs("cleaning").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`(?s)SELECT s\.id, s\.title.+LIMIT \$2 OFFSET \$3`).
		WithArgs("cleaning", 9, 9).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "price", "currency", "duration_minutes", "images",
			"user_id", "category_id", "c_id", "c_name", "c_slug",
			"u_id", "u_name", "rating", "completed_tasks",
			"is_active", "created_at", "updated_at",
		}).AddRow(
			21, "Deep Cleaning", "Full clean", 120.0, "NGN", 180, []byte(`["a.jpg"]`),
			7, 2, 2, "Cleaning", "cleaning",
			7, "Ada", 4.8, 31,
			true, now, nil,
		))

	services, total, err := repo.GetServicesWithFilters(context.Background(), models.ServiceFilter{
		CategorySlug: "cleaning",
		Page:         2,
		Limit:        9,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, total)
	require.Len(t, services, 1)
	assert.Equal(t, "Deep Cleaning", services[0].Title)
	assert.Equal(t, []string{"a.jpg"}, services[0].Images)
	assert.Equal(t, "cleaning", services[0].Category.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetServiceByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT s\.id, s\.title.+WHERE s\.id`).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	repo := &ServiceRepository{DB: db}
	_, err = repo.GetServiceByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
