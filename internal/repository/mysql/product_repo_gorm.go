package mysql

import (
	"context"
	"errors"
	"strings"

	"cake-shop/internal/domain"
	"cake-shop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func productFilter(q repository.ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Category != "" && q.Category != domain.AllCategories {
			db = db.Where("category = ?", q.Category)
		}
		if s := strings.TrimSpace(q.Search); s != "" {
			db = db.Where("search_name LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
		}
		return db
	}
}

func (r *productRepo) Query(ctx context.Context, q repository.ProductQuery) ([]domain.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Scopes(productFilter(q)).Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	if q.Page < 1 || q.PageSize < 1 {
		return nil, total, nil
	}
	// Pages past the end are empty; the division keeps huge page numbers from overflowing.
	if int64(q.Page-1) >= (total+int64(q.PageSize)-1)/int64(q.PageSize) {
		return nil, total, nil
	}

	var items []domain.Product
	if total > 0 {
		err := r.db.WithContext(ctx).
			Scopes(productFilter(q)).
			Order("name ASC").
			Offset((q.Page - 1) * q.PageSize).
			Limit(q.PageSize).
			Find(&items).Error
		if err != nil {
			return nil, 0, storeErr(err)
		}
	}
	return items, total, nil
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &p, nil
}

func (r *productRepo) Save(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return storeErr(r.db.WithContext(ctx).Save(p).Error)
}
