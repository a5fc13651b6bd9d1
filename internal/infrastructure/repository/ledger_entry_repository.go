package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	"github.com/sangkips/tradebook-api/internal/domain/ledger"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ledgerEntryRepository struct {
	db         *gorm.DB
	references domainRepo.ReferenceRepository
}

// NewLedgerEntryRepository creates the postgres-backed ledger store
func NewLedgerEntryRepository(db *gorm.DB, references domainRepo.ReferenceRepository) domainRepo.LedgerEntryRepository {
	return &ledgerEntryRepository{db: db, references: references}
}

// FetchEntries returns the newest entries first, up to filter.Limit. Counterparties
// and references come back embedded so the ledger can label them without a
// second lookup.
func (r *ledgerEntryRepository) FetchEntries(ctx context.Context, filter domainRepo.EntryFilter) ([]ledger.Entry, error) {
	query := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Counterparty").
		Where("ledger_type = ?", filter.LedgerType)

	if filter.EntityID != "" {
		entityID, err := uuid.Parse(filter.EntityID)
		if err != nil {
			return []ledger.Entry{}, nil
		}
		query = query.Where("entity_id = ?", entityID)
	}
	if filter.ReferenceID != "" {
		referenceID, err := uuid.Parse(filter.ReferenceID)
		if err != nil {
			return []ledger.Entry{}, nil
		}
		query = query.Where("reference_id = ?", referenceID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []entity.LedgerEntry
	if err := query.Order("date DESC NULLS LAST").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	refIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row.ReferenceID != nil {
			refIDs = append(refIDs, *row.ReferenceID)
		}
	}
	labels, err := r.references.Labels(ctx, refIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry, len(rows))
	for i, row := range rows {
		entries[i] = toLedgerEntry(row, labels)
	}
	return entries, nil
}

func (r *ledgerEntryRepository) CreateEntry(ctx context.Context, entry ledger.Entry) (ledger.Entry, error) {
	tenantID, err := RequireTenant(ctx)
	if err != nil {
		return ledger.Entry{}, err
	}

	row, err := fromLedgerEntry(entry)
	if err != nil {
		return ledger.Entry{}, err
	}
	row.TenantID = tenantID

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ledger.Entry{}, fmt.Errorf("insert ledger entry: %w", err)
	}

	stored := entry
	stored.ID = row.ID.String()
	created := row.CreatedAt
	stored.CreatedAt = &created
	return stored, nil
}

func toLedgerEntry(row entity.LedgerEntry, labels map[uuid.UUID]domainRepo.ReferenceLabel) ledger.Entry {
	e := ledger.Entry{
		ID:              row.ID.String(),
		LedgerType:      row.LedgerType,
		Date:            row.Date,
		TransactionType: row.TransactionType,
		EntityID:        ledger.IDRef(row.EntityID.String()),
		ReferenceModel:  row.ReferenceModel,
		Debit:           row.Debit,
		Credit:          row.Credit,
		PaymentMethod:   row.PaymentMethod,
		Description:     row.Description,
		Notes:           row.Notes,
	}
	if !row.CreatedAt.IsZero() {
		created := row.CreatedAt
		e.CreatedAt = &created
	}

	if row.Counterparty != nil {
		company := ""
		if row.Counterparty.Company != nil {
			company = *row.Counterparty.Company
		}
		e.EntityID = ledger.Ref{
			Kind:    ledger.RefEmbedded,
			ID:      row.EntityID.String(),
			Name:    row.Counterparty.Name,
			Company: company,
		}
	}

	if row.ReferenceID != nil {
		e.ReferenceID = ledger.IDRef(row.ReferenceID.String())
		if label, ok := labels[*row.ReferenceID]; ok {
			e.ReferenceID = ledger.Ref{
				Kind:           ledger.RefEmbedded,
				ID:             row.ReferenceID.String(),
				OrderNumber:    label.OrderNumber,
				PurchaseNumber: label.PurchaseNumber,
			}
			if e.ReferenceModel == "" {
				e.ReferenceModel = label.Model
			}
		}
	}

	if row.TransactionType.IsPayment() {
		e.PaymentDetails = &ledger.PaymentDetails{
			CashPayment:      row.CashPayment,
			BankPayment:      row.BankPayment,
			RemainingBalance: row.RemainingBalance,
		}
	}
	return e
}

func fromLedgerEntry(e ledger.Entry) (entity.LedgerEntry, error) {
	entityID, err := uuid.Parse(e.EntityID.ID)
	if err != nil {
		return entity.LedgerEntry{}, &ledger.ValidationError{Field: "counterparty", Message: "counterparty id is not valid"}
	}

	row := entity.LedgerEntry{
		LedgerType:       e.LedgerType,
		EntityID:         entityID,
		TransactionType:  e.TransactionType,
		ReferenceModel:   e.ReferenceModel,
		Debit:            e.Debit,
		Credit:           e.Credit,
		PaymentMethod:    e.PaymentMethod,
		CashPayment:      decimal.Zero,
		BankPayment:      decimal.Zero,
		RemainingBalance: decimal.Zero,
		Date:             e.Date,
		Description:      e.Description,
		Notes:            e.Notes,
	}
	if !e.ReferenceID.IsZero() {
		refID, err := uuid.Parse(e.ReferenceID.ID)
		if err != nil {
			return entity.LedgerEntry{}, &ledger.ValidationError{Field: "reference", Message: "reference id is not valid"}
		}
		row.ReferenceID = &refID
	}
	if e.PaymentDetails != nil {
		row.CashPayment = e.PaymentDetails.CashPayment
		row.BankPayment = e.PaymentDetails.BankPayment
		row.RemainingBalance = e.PaymentDetails.RemainingBalance
	}
	return row, nil
}
