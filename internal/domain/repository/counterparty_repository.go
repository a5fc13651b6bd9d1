package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/pkg/pagination"
)

// CounterpartyRepository defines the interface for counterparty data operations
type CounterpartyRepository interface {
	Create(ctx context.Context, counterparty *entity.Counterparty) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Counterparty, error)
	List(ctx context.Context, params *CounterpartyFilterParams) ([]entity.Counterparty, int64, error)
	// GetNames returns display names keyed by id; unknown ids are left out
	GetNames(ctx context.Context, ids []string) (map[string]string, error)
}

// CounterpartyFilterParams contains filtering parameters for counterparty queries
type CounterpartyFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       enum.LedgerType
	Search     string
}
