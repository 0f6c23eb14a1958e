package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cake-shop/internal/domain"
	"cake-shop/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CatalogCache is the subset of the redis client used for page caching.
type CatalogCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type CatalogService struct {
	repo     repository.ProductRepository
	cache    CatalogCache
	pageSize int
	cacheTTL time.Duration
}

func NewCatalogService(repo repository.ProductRepository, pageSize int, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{repo: repo, pageSize: pageSize, cacheTTL: cacheTTL}
}

func (s *CatalogService) SetCache(cache CatalogCache) {
	s.cache = cache
}

func (s *CatalogService) Categories() []string {
	out := make([]string, len(domain.Categories))
	copy(out, domain.Categories)
	return out
}

// Query returns the requested page of products ordered by name. Unknown
// categories yield an empty page; pages past the end are empty.
func (s *CatalogService) Query(ctx context.Context, category, search string, page int) (*domain.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if category == "" {
		category = domain.AllCategories
	}
	search = strings.TrimSpace(search)

	key := fmt.Sprintf("catalog:%s:%s:%d", category, strings.ToLower(search), page)
	if res := s.cached(ctx, key); res != nil {
		return res, nil
	}

	items, total, err := s.repo.Query(ctx, repository.ProductQuery{
		Category: category,
		Search:   search,
		Page:     page,
		PageSize: s.pageSize,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Product{}
	}

	res := &domain.ProductPage{Items: items, Total: total, Page: page, PageSize: s.pageSize}
	s.store(ctx, key, res)
	return res, nil
}

func (s *CatalogService) cached(ctx context.Context, key string) *domain.ProductPage {
	if s.cache == nil {
		return nil
	}
	b, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("catalog cache get", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var page domain.ProductPage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil
	}
	return &page
}

func (s *CatalogService) store(ctx context.Context, key string, page *domain.ProductPage) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		zap.L().Warn("catalog cache set", zap.String("key", key), zap.Error(err))
	}
}
