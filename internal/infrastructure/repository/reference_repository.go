package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"gorm.io/gorm"
)

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a repository over purchases and dispatch orders
func NewReferenceRepository(db *gorm.DB) domainRepo.ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) Labels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domainRepo.ReferenceLabel, error) {
	labels := make(map[uuid.UUID]domainRepo.ReferenceLabel, len(ids))
	if len(ids) == 0 {
		return labels, nil
	}

	var purchases []entity.Purchase
	if err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Select("id", "purchase_number").
		Where("id IN ?", ids).
		Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("load purchase numbers: %w", err)
	}
	for _, p := range purchases {
		labels[p.ID] = domainRepo.ReferenceLabel{Model: enum.ReferenceModelPurchase, PurchaseNumber: p.PurchaseNumber}
	}

	var orders []entity.DispatchOrder
	if err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Select("id", "order_number").
		Where("id IN ?", ids).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("load order numbers: %w", err)
	}
	for _, o := range orders {
		labels[o.ID] = domainRepo.ReferenceLabel{Model: enum.ReferenceModelDispatchOrder, OrderNumber: o.OrderNumber}
	}

	return labels, nil
}
