package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is a supplier invoice that purchase and payment entries reference
type Purchase struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"counterparty_id"`
	PurchaseNumber string          `gorm:"size:100;not null;index" json:"purchase_number"`
	Date           time.Time       `gorm:"type:date;not null" json:"date"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	Counterparty *Counterparty `gorm:"foreignKey:CounterpartyID" json:"counterparty,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}
