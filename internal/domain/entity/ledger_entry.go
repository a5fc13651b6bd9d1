package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is one stored debit/credit line against a counterparty.
// Entries are append-only; corrections are posted as new entries.
type LedgerEntry struct {
	ID               uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TenantID         uuid.UUID            `gorm:"type:uuid;not null;index:idx_ledger_entries_scope" json:"tenant_id"`
	LedgerType       enum.LedgerType      `gorm:"size:50;not null;index:idx_ledger_entries_scope" json:"ledger_type"`
	EntityID         uuid.UUID            `gorm:"type:uuid;not null;index" json:"entity_id"`
	TransactionType  enum.TransactionType `gorm:"size:50;not null" json:"transaction_type"`
	ReferenceID      *uuid.UUID           `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	ReferenceModel   enum.ReferenceModel  `gorm:"size:50" json:"reference_model,omitempty"`
	Debit            decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"debit"`
	Credit           decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"credit"`
	PaymentMethod    enum.PaymentMethod   `gorm:"size:20" json:"payment_method,omitempty"`
	CashPayment      decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"cash_payment"`
	BankPayment      decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"bank_payment"`
	RemainingBalance decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"remaining_balance"`
	Date             *time.Time           `gorm:"index" json:"date,omitempty"`
	Description      string               `gorm:"type:text" json:"description,omitempty"`
	Notes            string               `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`

	Counterparty *Counterparty `gorm:"foreignKey:EntityID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new ledger entry
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
