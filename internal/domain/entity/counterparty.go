package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Counterparty is a supplier, buyer or logistics company that ledger entries are posted against
type Counterparty struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Type          enum.LedgerType `gorm:"size:50;not null;index" json:"type"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Company       *string         `gorm:"size:255" json:"company,omitempty"`
	Email         *string         `gorm:"size:255" json:"email,omitempty"`
	Phone         *string         `gorm:"size:50" json:"phone,omitempty"`
	Address       *string         `gorm:"type:text" json:"address,omitempty"`
	KRAPin        *string         `gorm:"size:50;column:kra_pin" json:"kra_pin,omitempty"`
	AccountHolder *string         `gorm:"size:255" json:"account_holder,omitempty"`
	AccountNumber *string         `gorm:"size:100" json:"account_number,omitempty"`
	BankName      *string         `gorm:"size:255" json:"bank_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new counterparty
func (c *Counterparty) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Counterparty model
func (Counterparty) TableName() string {
	return "counterparties"
}

// DisplayName is the name shown in ledgers: name, then company, then "Unknown"
func (c Counterparty) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Company != nil && *c.Company != "" {
		return *c.Company
	}
	return "Unknown"
}
