package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/sangkips/tradebook-api/pkg/pagination"
	"github.com/sangkips/tradebook-api/pkg/utils"
	"gorm.io/gorm"
)

type counterpartyRepository struct {
	db *gorm.DB
}

// NewCounterpartyRepository creates a new counterparty repository
func NewCounterpartyRepository(db *gorm.DB) domainRepo.CounterpartyRepository {
	return &counterpartyRepository{db: db}
}

func (r *counterpartyRepository) Create(ctx context.Context, counterparty *entity.Counterparty) error {
	tenantID, err := RequireTenant(ctx)
	if err != nil {
		return err
	}
	counterparty.TenantID = tenantID
	return r.db.WithContext(ctx).Create(counterparty).Error
}

func (r *counterpartyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Counterparty, error) {
	var counterparty entity.Counterparty
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&counterparty, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &counterparty, err
}

func (r *counterpartyRepository) List(ctx context.Context, params *domainRepo.CounterpartyFilterParams) ([]entity.Counterparty, int64, error) {
	var counterparties []entity.Counterparty
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Counterparty{}).Scopes(TenantScope(ctx))
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Search != "" {
		query = query.Where("name ILIKE ? OR company ILIKE ? OR phone ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&counterparties).Error

	return counterparties, total, err
}

func (r *counterpartyRepository) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	uuids := utils.ParseUUIDs(ids)
	if len(uuids) == 0 {
		return names, nil
	}

	var counterparties []entity.Counterparty
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Select("id", "name", "company").
		Where("id IN ?", uuids).
		Find(&counterparties).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counterparties {
		names[c.ID.String()] = c.DisplayName()
	}
	return names, nil
}
