package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"chazonBack/internal/models"
	"chazonBack/internal/repositories"
)

const (
	defaultPageSize = 9
	maxPageSize     = 100

	serviceCacheTTL = 5 * time.Minute
)

type ServiceService struct {
	ServiceRepo *repositories.ServiceRepository

	// Optional read cache for offering detail pages. Nil disables caching.
	Cache  *redis.Client
	Logger *slog.Logger
}

// NormalizeServiceFilter applies the listing defaults: malformed or
// out-of-range values are clamped or dropped, never rejected, so a bad query
// string still returns a sensible first page.
func NormalizeServiceFilter(f models.ServiceFilter) models.ServiceFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		f.MinPrice = nil
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		f.MaxPrice = nil
	}
	switch f.SortBy {
	case models.SortPriceAsc, models.SortPriceDesc:
	default:
		f.SortBy = ""
	}
	return f
}

func paginationFor(page, limit, total int) models.Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return models.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func (s *ServiceService) GetFilteredServices(ctx context.Context, f models.ServiceFilter) ([]models.Service, models.Pagination, error) {
	f = NormalizeServiceFilter(f)
	services, total, err := s.ServiceRepo.GetServicesWithFilters(ctx, f)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if services == nil {
		services = []models.Service{}
	}
	return services, paginationFor(f.Page, f.Limit, total), nil
}

func serviceCacheKey(id int) string {
	return fmt.Sprintf("service:%d", id)
}

func (s *ServiceService) GetServiceByID(ctx context.Context, id int) (models.Service, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, serviceCacheKey(id)).Bytes(); err == nil {
			var svc models.Service
			if json.Unmarshal(cached, &svc) == nil {
				return svc, nil
			}
		}
	}

	svc, err := s.ServiceRepo.GetServiceByID(ctx, id)
	if err != nil {
		return models.Service{}, err
	}

	if s.Cache != nil {
		if payload, err := json.Marshal(svc); err == nil {
			if err := s.Cache.Set(ctx, serviceCacheKey(id), payload, serviceCacheTTL).Err(); err != nil {
				s.logger().Warn("service cache set", "id", id, "error", err)
			}
		}
	}
	return svc, nil
}

func (s *ServiceService) CreateService(ctx context.Context, userID int, req models.CreateServiceRequest) (models.Service, error) {
	if req.Title == "" || req.CategoryID <= 0 || req.Price <= 0 {
		return models.Service{}, ErrMissingFields
	}
	currency := req.Currency
	if currency == "" {
		currency = "NGN"
	}
	svc := models.Service{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
		Duration:    req.Duration,
		Images:      req.Images,
		UserID:      userID,
		CategoryID:  req.CategoryID,
	}
	created, err := s.ServiceRepo.CreateService(ctx, svc)
	if err != nil {
		return models.Service{}, err
	}
	return s.ServiceRepo.GetServiceByID(ctx, created.ID)
}

func (s *ServiceService) UpdateService(ctx context.Context, userID int, svc models.Service) (models.Service, error) {
	existing, err := s.ServiceRepo.GetServiceByID(ctx, svc.ID)
	if err != nil {
		return models.Service{}, err
	}
	if existing.UserID != userID {
		return models.Service{}, ErrForbidden
	}

	updated, err := s.ServiceRepo.UpdateService(ctx, svc)
	if err != nil {
		return models.Service{}, err
	}
	s.invalidate(ctx, svc.ID)
	return updated, nil
}

func (s *ServiceService) GetServicesByUserID(ctx context.Context, userID int) ([]models.Service, error) {
	return s.ServiceRepo.GetServicesByUserID(ctx, userID)
}

func (s *ServiceService) invalidate(ctx context.Context, id int) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, serviceCacheKey(id)).Err(); err != nil {
		s.logger().Warn("service cache invalidate", "id", id, "error", err)
	}
}

func (s *ServiceService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
