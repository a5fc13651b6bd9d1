package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DispatchOrder is an outgoing order. Buyer and logistics entries reference it.
type DispatchOrder struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BuyerID        *uuid.UUID      `gorm:"type:uuid;index" json:"buyer_id,omitempty"`
	LogisticsID    *uuid.UUID      `gorm:"type:uuid;index" json:"logistics_id,omitempty"`
	OrderNumber    string          `gorm:"size:100;not null;index" json:"order_number"`
	OrderDate      time.Time       `gorm:"type:date;not null" json:"order_date"`
	Total          decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total"`
	FreightCharges decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"freight_charges"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new dispatch order
func (o *DispatchOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DispatchOrder model
func (DispatchOrder) TableName() string {
	return "dispatch_orders"
}
