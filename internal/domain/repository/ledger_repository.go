package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/ledger"
)

// EntryFilter selects which raw entries the ledger store returns
type EntryFilter struct {
	LedgerType  enum.LedgerType
	EntityID    string // empty for every counterparty of the ledger type
	ReferenceID string // keeps only entries posted against one order or invoice
	Limit       int
}

// LedgerEntryRepository is the ledger store. Entries come back in the raw
// shapes the core normalizes, in no particular order.
type LedgerEntryRepository interface {
	FetchEntries(ctx context.Context, filter EntryFilter) ([]ledger.Entry, error)
	// CreateEntry stores an entry and returns it with its id and createdAt set
	CreateEntry(ctx context.Context, entry ledger.Entry) (ledger.Entry, error)
}

// ReferenceLabel is the display number of an order or invoice
type ReferenceLabel struct {
	Model          enum.ReferenceModel
	OrderNumber    string
	PurchaseNumber string
}

// ReferenceRepository resolves purchases and dispatch orders referenced by entries
type ReferenceRepository interface {
	Labels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ReferenceLabel, error)
}

// LedgerCache keeps fetched entry sets between requests
type LedgerCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]ledger.Entry, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, filter EntryFilter, entries []ledger.Entry) error
	// Invalidate drops every cached set of one ledger type for a tenant
	Invalidate(ctx context.Context, tenantID uuid.UUID, ledgerType enum.LedgerType) error
}

// PaymentRecordedEvent is published after a payment entry is stored
type PaymentRecordedEvent struct {
	EventID        string             `json:"event_id"`
	TenantID       string             `json:"tenant_id"`
	LedgerType     enum.LedgerType    `json:"ledger_type"`
	EntryID        string             `json:"entry_id"`
	CounterpartyID string             `json:"counterparty_id"`
	ReferenceID    string             `json:"reference_id,omitempty"`
	Amount         string             `json:"amount"`
	Method         enum.PaymentMethod `json:"method"`
	RecordedBy     string             `json:"recorded_by,omitempty"`
	OccurredAt     string             `json:"occurred_at"`
}

// PaymentEventPublisher announces recorded payments to other services
type PaymentEventPublisher interface {
	PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error
	Close() error
}
