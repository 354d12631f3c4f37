package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chazonBack/internal/models"
)

var (
	ErrServiceNotFound = errors.New("service not found")
)

type ServiceRepository struct {
	DB *sql.DB
}

func encodeImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}

func decodeImages(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (r *ServiceRepository) CreateService(ctx context.Context, s models.Service) (models.Service, error) {
	images, err := encodeImages(s.Images)
	if err != nil {
		return models.Service{}, err
	}
	query := `
        INSERT INTO services (user_id, category_id, title, description, price, currency, duration_minutes, images, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, NOW(), NOW())
        RETURNING id, created_at
    `
	err = r.DB.QueryRowContext(ctx, query,
		s.UserID, s.CategoryID, s.Title, s.Description, s.Price, s.Currency, s.Duration, images,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return models.Service{}, ErrCategoryNotFound
		}
		return models.Service{}, err
	}
	s.IsActive = true
	return s, nil
}

func (r *ServiceRepository) GetServiceByID(ctx context.Context, id int) (models.Service, error) {
	query := `
        SELECT s.id, s.title, s.description, s.price, s.currency, s.duration_minutes, s.images,
               s.user_id, s.category_id, c.id, c.name, c.slug,
               u.id, u.name, COALESCE(sp.rating, 0), COALESCE(sp.completed_tasks, 0),
               s.is_active, s.created_at, s.updated_at
        FROM services s
        JOIN categories c ON s.category_id = c.id
        JOIN users u ON s.user_id = u.id
        LEFT JOIN steward_profiles sp ON sp.user_id = u.id
        WHERE s.id = $1
    `
	var s models.Service
	var images []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Title, &s.Description, &s.Price, &s.Currency, &s.Duration, &images,
		&s.UserID, &s.CategoryID, &s.Category.ID, &s.Category.Name, &s.Category.Slug,
		&s.Steward.ID, &s.Steward.Name, &s.Steward.Rating, &s.Steward.TotalReviews,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Service{}, ErrServiceNotFound
	}
	if err != nil {
		return models.Service{}, err
	}
	if err := decodeImages(images, &s.Images); err != nil {
		return models.Service{}, err
	}
	return s, nil
}

func (r *ServiceRepository) UpdateService(ctx context.Context, s models.Service) (models.Service, error) {
	images, err := encodeImages(s.Images)
	if err != nil {
		return models.Service{}, err
	}
	query := `
        UPDATE services
        SET title = $1, description = $2, category_id = $3, price = $4, currency = $5,
            duration_minutes = $6, images = $7, is_active = $8, updated_at = NOW()
        WHERE id = $9
    `
	result, err := r.DB.ExecContext(ctx, query,
		s.Title, s.Description, s.CategoryID, s.Price, s.Currency, s.Duration, images, s.IsActive, s.ID,
	)
	if err != nil {
		return models.Service{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.Service{}, err
	}
	if rows == 0 {
		return models.Service{}, ErrServiceNotFound
	}
	return r.GetServiceByID(ctx, s.ID)
}

// buildServiceListWhere assembles the WHERE clause shared by the listing and
// its COUNT query. Placeholders are numbered from $1.
func buildServiceListWhere(f models.ServiceFilter) (string, []interface{}) {
	conditions := []string{"s.is_active"}
	var params []interface{}

	next := func() string { return fmt.Sprintf("$%d", len(params)+1) }

	if f.CategorySlug != "" {
		conditions = append(conditions, "LOWER(c.slug) = LOWER("+next()+")")
		params = append(params, f.CategorySlug)
	}
	if f.Search != "" {
		p := next()
		conditions = append(conditions, "(s.title ILIKE "+p+" OR s.description ILIKE "+p+")")
		params = append(params, "%"+f.Search+"%")
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "s.price >= "+next())
		params = append(params, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "s.price <= "+next())
		params = append(params, *f.MaxPrice)
	}

	return " WHERE " + strings.Join(conditions, " AND "), params
}

func serviceListOrder(sortBy string) string {
	switch sortBy {
	case models.SortPriceAsc:
		return " ORDER BY s.price ASC, s.id ASC"
	case models.SortPriceDesc:
		return " ORDER BY s.price DESC, s.id ASC"
	default:
		return " ORDER BY s.created_at DESC, s.id DESC"
	}
}

// GetServicesWithFilters returns one page of active offerings matching the
// filter plus the total match count for pagination.
func (r *ServiceRepository) GetServicesWithFilters(ctx context.Context, f models.ServiceFilter) ([]models.Service, int, error) {
	where, params := buildServiceListWhere(f)

	countQuery := `
        SELECT COUNT(*)
        FROM services s
        JOIN categories c ON s.category_id = c.id
    ` + where

	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `
        SELECT s.id, s.title, s.description, s.price, s.currency, s.duration_minutes, s.images,
               s.user_id, s.category_id, c.id, c.name, c.slug,
               u.id, u.name, COALESCE(sp.rating, 0), COALESCE(sp.completed_tasks, 0),
               s.is_active, s.created_at, s.updated_at
        FROM services s
        JOIN categories c ON s.category_id = c.id
        JOIN users u ON s.user_id = u.id
        LEFT JOIN steward_profiles sp ON sp.user_id = u.id
    ` + where + serviceListOrder(f.SortBy)

	offset := (f.Page - 1) * f.Limit
	listQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(params)+1, len(params)+2)
	listParams := append(append([]interface{}{}, params...), f.Limit, offset)

	rows, err := r.DB.QueryContext(ctx, listQuery, listParams...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		var images []byte
		err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.Price, &s.Currency, &s.Duration, &images,
			&s.UserID, &s.CategoryID, &s.Category.ID, &s.Category.Name, &s.Category.Slug,
			&s.Steward.ID, &s.Steward.Name, &s.Steward.Rating, &s.Steward.TotalReviews,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if err := decodeImages(images, &s.Images); err != nil {
			return nil, 0, err
		}
		services = append(services, s)
	}
	return services, total, rows.Err()
}

func (r *ServiceRepository) GetServicesByUserID(ctx context.Context, userID int) ([]models.Service, error) {
	query := `
        SELECT s.id, s.title, s.description, s.price, s.currency, s.duration_minutes, s.images,
               s.user_id, s.category_id, c.id, c.name, c.slug,
               s.is_active, s.created_at, s.updated_at
        FROM services s
        JOIN categories c ON s.category_id = c.id
        WHERE s.user_id = $1
        ORDER BY s.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		var images []byte
		err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.Price, &s.Currency, &s.Duration, &images,
			&s.UserID, &s.CategoryID, &s.Category.ID, &s.Category.Name, &s.Category.Slug,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := decodeImages(images, &s.Images); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
