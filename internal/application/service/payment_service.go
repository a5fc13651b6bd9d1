package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/ledger"
	"github.com/sangkips/tradebook-api/internal/domain/repository"
	infraRepo "github.com/sangkips/tradebook-api/internal/infrastructure/repository"
	"github.com/sangkips/tradebook-api/pkg/apperror"
	"go.uber.org/zap"
)

// PaymentService is the only write path into the ledger
type PaymentService struct {
	entries        repository.LedgerEntryRepository
	counterparties repository.CounterpartyRepository
	ledgers        *LedgerService
	cache          repository.LedgerCache
	events         repository.PaymentEventPublisher
	log            *zap.Logger
	now            func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	entries repository.LedgerEntryRepository,
	counterparties repository.CounterpartyRepository,
	ledgers *LedgerService,
	cache repository.LedgerCache,
	events repository.PaymentEventPublisher,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		entries:        entries,
		counterparties: counterparties,
		ledgers:        ledgers,
		cache:          cache,
		events:         events,
		log:            log,
		now:            ledgers.now,
	}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	LedgerType     enum.LedgerType
	CounterpartyID string
	Amount         float64
	Method         enum.PaymentMethod
	ReferenceID    string
	ReferenceModel enum.ReferenceModel
	Date           *time.Time
	Description    string
	RecordedBy     uuid.UUID
}

// RecordPayment validates and stores one payment entry. Nothing reaches the
// store when validation fails. Callers re-read the ledger afterwards; the
// entry cache for the ledger is dropped here.
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*ledger.Entry, error) {
	if !input.LedgerType.IsValid() {
		return nil, apperror.NewNotFoundError("Ledger")
	}
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, errTenantRequired
	}

	date := input.Date
	if date == nil {
		now := s.now()
		date = &now
	}

	entry, err := ledger.NewPayment(ledger.PaymentRequest{
		LedgerType:     input.LedgerType,
		CounterpartyID: input.CounterpartyID,
		Amount:         input.Amount,
		Method:         input.Method,
		ReferenceID:    input.ReferenceID,
		ReferenceModel: input.ReferenceModel,
		Date:           date,
		Description:    input.Description,
	})
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return nil, fromValidation(verr)
	}
	if err != nil {
		return nil, err
	}

	names, err := s.counterparties.GetNames(ctx, []string{input.CounterpartyID})
	if err != nil {
		return nil, storeError("look up counterparty", err)
	}
	if _, ok := names[input.CounterpartyID]; !ok {
		return nil, apperror.NewNotFoundError("Counterparty")
	}

	stored, err := s.entries.CreateEntry(ctx, entry)
	if err != nil {
		return nil, storeError("record payment", err)
	}

	s.log.Info("payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("ledger_type", input.LedgerType.String()),
		zap.String("entry_id", stored.ID),
		zap.String("counterparty_id", input.CounterpartyID),
		zap.String("reference_id", input.ReferenceID),
		zap.String("amount", stored.Credit.StringFixed(2)),
		zap.String("method", input.Method.String()),
	)

	s.afterWrite(ctx, tenantID, input, stored)
	return &stored, nil
}

// afterWrite runs once the store has acknowledged the entry. Failures here
// are logged only: the payment exists and must not be retried.
func (s *PaymentService) afterWrite(ctx context.Context, tenantID uuid.UUID, input *RecordPaymentInput, stored ledger.Entry) {
	if err := s.cache.Invalidate(ctx, tenantID, input.LedgerType); err != nil {
		s.log.Warn("ledger cache invalidation failed", zap.Error(err), zap.String("tenant_id", tenantID.String()))
	}

	event := repository.PaymentRecordedEvent{
		EventID:        uuid.NewString(),
		TenantID:       tenantID.String(),
		LedgerType:     input.LedgerType,
		EntryID:        stored.ID,
		CounterpartyID: input.CounterpartyID,
		ReferenceID:    input.ReferenceID,
		Amount:         stored.Credit.StringFixed(2),
		Method:         input.Method,
		OccurredAt:     s.now().UTC().Format(time.RFC3339),
	}
	if input.RecordedBy != uuid.Nil {
		event.RecordedBy = input.RecordedBy.String()
	}
	if err := s.events.PublishPaymentRecorded(ctx, event); err != nil {
		s.log.Warn("payment event not published", zap.Error(err), zap.String("entry_id", stored.ID))
	}
}

// MarkAsPaidInput represents the mark-as-paid input
type MarkAsPaidInput struct {
	LedgerType     enum.LedgerType
	ReferenceID    string
	CounterpartyID string // required only when several counterparties share the reference
	Method         enum.PaymentMethod
	Date           *time.Time
	RecordedBy     uuid.UUID
}

// MarkAsPaidResult is the payment recorded and the reference state before it
type MarkAsPaidResult struct {
	Payment *ledger.Entry         `json:"payment"`
	Before  ledger.PendingBalance `json:"before"`
}

// MarkAsPaid settles a reference by recording one payment for exactly what
// remains on it. The remaining amount is read from the store, never from the
// entry cache or a limited statement view.
func (s *PaymentService) MarkAsPaid(ctx context.Context, input *MarkAsPaidInput) (*MarkAsPaidResult, error) {
	if input.ReferenceID == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "reference", Message: "reference is required"},
		})
	}

	matches, err := s.ledgers.ReferenceBalances(ctx, input.LedgerType, input.CounterpartyID, input.ReferenceID)
	if err != nil {
		return nil, err
	}
	switch {
	case len(matches) == 0:
		return nil, apperror.NewNotFoundError("Reference")
	case len(matches) > 1:
		return nil, apperror.NewBadRequestError("Reference is shared by several counterparties, select one")
	}

	record := matches[0]
	if !record.Amount.IsPositive() {
		return nil, apperror.NewConflictError("Nothing remains to be paid on this reference")
	}

	payment, err := s.RecordPayment(ctx, &RecordPaymentInput{
		LedgerType:     input.LedgerType,
		CounterpartyID: record.CounterpartyID,
		Amount:         record.Amount.InexactFloat64(),
		Method:         input.Method,
		ReferenceID:    record.ReferenceID,
		ReferenceModel: record.ReferenceModel,
		Date:           input.Date,
		Description:    "Settlement of " + record.ReferenceLabel,
		RecordedBy:     input.RecordedBy,
	})
	if err != nil {
		return nil, err
	}
	return &MarkAsPaidResult{Payment: payment, Before: record}, nil
}
