package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cake-shop/internal/domain"
	"cake-shop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		zap.L().Error("save order", zap.String("order_id", order.ID), zap.Error(err))
		return storeErr(err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		zap.L().Error("find order", zap.String("order_id", id), zap.Error(err))
		return nil, storeErr(err)
	}
	return &o, nil
}

func (r *orderRepo) FindCurrentByUser(ctx context.Context, userID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Take(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &o, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&o).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return tx.Model(&o).Update("status", status).Error
	})
	if err != nil {
		zap.L().Error("update order status", zap.String("order_id", id), zap.Error(err))
		return false, storeErr(err)
	}
	return found, nil
}

func (r *orderRepo) Archive(ctx context.Context, id string, outcome domain.ArchivedOutcome, completedAt time.Time) (*domain.OrderHistoryRecord, error) {
	if !outcome.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, outcome)
	}

	var rec *domain.OrderHistoryRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A concurrent archive of the same order waits here and then sees no row.
		var o domain.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&o).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		h := domain.NewHistoryRecord(uuid.NewString(), &o, outcome, completedAt)
		if err := tx.Create(h).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", o.ID).Delete(&domain.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: order %s: deleted %d active rows", domain.ErrArchiveInconsistent, o.ID, res.RowsAffected)
		}
		rec = h
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrArchiveInconsistent) {
			zap.L().Error("archive rolled back, manual reconciliation required",
				zap.String("order_id", id), zap.String("outcome", string(outcome)), zap.Error(err))
			return nil, err
		}
		zap.L().Error("archive order", zap.String("order_id", id), zap.Error(err))
		return nil, storeErr(err)
	}
	return rec, nil
}

func (r *orderRepo) ListHistoryByUser(ctx context.Context, userID string) ([]domain.OrderHistoryRecord, error) {
	var out []domain.OrderHistoryRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}
