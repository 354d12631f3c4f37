package repositories

import (
	"context"
	"database/sql"
	"errors"

	"chazonBack/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

type CategoryRepository struct {
	DB *sql.DB
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	query := `
        INSERT INTO categories (name, slug, description, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	err := r.DB.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// GetAllCategories lists categories alphabetically with a count of active
// offerings in each, matching what the catalog page renders.
func (r *CategoryRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	query := `
        SELECT c.id, c.name, c.slug, c.description,
               COUNT(s.id) FILTER (WHERE s.is_active) AS service_count,
               c.created_at
        FROM categories c
        LEFT JOIN services s ON s.category_id = c.id
        GROUP BY c.id
        ORDER BY c.name ASC
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ServiceCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int) (models.Category, error) {
	var c models.Category
	query := `SELECT id, name, slug, description, created_at FROM categories WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	query := `SELECT id, name, slug, description, created_at FROM categories WHERE LOWER(slug) = LOWER($1)`
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}
