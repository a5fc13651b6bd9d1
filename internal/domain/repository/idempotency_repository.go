package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key for the tenant and user that sent it
	GetByKey(ctx context.Context, key string, tenantID, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired idempotency keys
	DeleteExpired(ctx context.Context) error
}
