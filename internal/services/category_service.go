package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"chazonBack/internal/models"
	"chazonBack/internal/repositories"
)

const (
	categoryCacheKey = "categories:all"
	categoryCacheTTL = 10 * time.Minute
)

type CategoryService struct {
	CategoryRepo *repositories.CategoryRepository
	Cache        *redis.Client
}

// GetAllCategories returns every category with its active-offering count. The
// list changes rarely, so it sits in the cache for a while.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, categoryCacheKey).Bytes(); err == nil {
			var categories []models.Category
			if json.Unmarshal(cached, &categories) == nil {
				return categories, nil
			}
		}
	}

	categories, err := s.CategoryRepo.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}

	if s.Cache != nil {
		if payload, err := json.Marshal(categories); err == nil {
			s.Cache.Set(ctx, categoryCacheKey, payload, categoryCacheTTL)
		}
	}
	return categories, nil
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	return s.CategoryRepo.GetCategoryBySlug(ctx, slug)
}

func (s *CategoryService) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	created, err := s.CategoryRepo.CreateCategory(ctx, category)
	if err != nil {
		return models.Category{}, err
	}
	if s.Cache != nil {
		s.Cache.Del(ctx, categoryCacheKey)
	}
	return created, nil
}
