package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores processed write requests so retries replay the first response
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_scope;size:255;not null"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_scope"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_scope"`
	Endpoint     string    `gorm:"size:255;not null"` // e.g. "POST /api/v1/ledgers/supplier/payments"
	RequestHash  string    `gorm:"size:64"`           // sha256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpiredAt reports whether the key had expired at now
func (i *IdempotencyKey) IsExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
