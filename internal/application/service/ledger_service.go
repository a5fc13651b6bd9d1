package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/ledger"
	"github.com/sangkips/tradebook-api/internal/domain/repository"
	infraRepo "github.com/sangkips/tradebook-api/internal/infrastructure/repository"
	"github.com/sangkips/tradebook-api/pkg/apperror"
	"github.com/sangkips/tradebook-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultFetchLimit caps how many entries one view reads from the store
const DefaultFetchLimit = 1000

// LedgerOptions tune a LedgerService
type LedgerOptions struct {
	FetchLimit int
	Location   *time.Location
	Now        func() time.Time
}

// LedgerService is the read side: fetch, normalize, fold and summarize
type LedgerService struct {
	entries        repository.LedgerEntryRepository
	counterparties repository.CounterpartyRepository
	cache          repository.LedgerCache
	log            *zap.Logger
	fetchLimit     int
	loc            *time.Location
	now            func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	entries repository.LedgerEntryRepository,
	counterparties repository.CounterpartyRepository,
	cache repository.LedgerCache,
	log *zap.Logger,
	opts LedgerOptions,
) *LedgerService {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultFetchLimit
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &LedgerService{
		entries:        entries,
		counterparties: counterparties,
		cache:          cache,
		log:            log,
		fetchLimit:     opts.FetchLimit,
		loc:            opts.Location,
		now:            opts.Now,
	}
}

// StatementQuery selects a statement view
type StatementQuery struct {
	LedgerType      enum.LedgerType
	CounterpartyID  string
	DateFrom        *time.Time
	DateTo          *time.Time
	Method          enum.PaymentMethod
	TransactionType enum.TransactionType
	Pagination      *pagination.PaginationParams
}

func (q StatementQuery) filter() ledger.Filter {
	return ledger.Filter{
		DateFrom:        q.DateFrom,
		DateTo:          q.DateTo,
		Method:          q.Method,
		TransactionType: q.TransactionType,
	}
}

// Statement is a newest-first page of transactions with running balances.
// Totals cover every filtered record, not only the page.
type Statement struct {
	Records        []ledger.Transaction         `json:"records"`
	Totals         ledger.Totals                `json:"totals"`
	ClosingBalance decimal.Decimal              `json:"closing_balance"`
	Counterparties []ledger.CounterpartyBalance `json:"counterparties,omitempty"`
	Pagination     *pagination.Pagination       `json:"pagination"`
	Truncated      bool                         `json:"truncated"`
}

// ledgerView is one fetch worth of normalized transactions
type ledgerView struct {
	txs       []ledger.Transaction
	truncated bool
}

// Statement builds the running-balance table for a ledger type. With a
// counterparty the balance is that counterparty's; without one each row
// carries its own counterparty's balance.
func (s *LedgerService) Statement(ctx context.Context, q StatementQuery) (*Statement, error) {
	records, result, err := s.statementRecords(ctx, q)
	if err != nil {
		return nil, err
	}

	if q.Pagination == nil {
		q.Pagination = pagination.DefaultPagination()
	}
	page, p := pagination.Page(ledger.NewestFirst(records), q.Pagination)
	result.Records = page
	result.Pagination = p
	return result, nil
}

// statementRecords returns the filtered rows in ledger order plus the statement without records
func (s *LedgerService) statementRecords(ctx context.Context, q StatementQuery) ([]ledger.Transaction, *Statement, error) {
	view, err := s.load(ctx, q.LedgerType, q.CounterpartyID)
	if err != nil {
		return nil, nil, err
	}

	result := &Statement{Truncated: view.truncated}
	var rows []ledger.Transaction
	if q.CounterpartyID != "" {
		rows, err = ledger.ComputeRunningBalances(view.txs, ledger.ScopeSingle)
		if errors.Is(err, ledger.ErrMixedCounterparties) {
			return nil, nil, apperror.NewBadRequestError("Entries returned for more than one counterparty")
		}
		if err != nil {
			return nil, nil, err
		}
		result.ClosingBalance = ledger.FinalBalance(rows)
	} else {
		var balances []ledger.CounterpartyBalance
		rows, balances = ledger.BalancesByCounterparty(view.txs)
		rows = ledger.SortChronological(rows)
		result.Counterparties = balances
		result.ClosingBalance = ledger.SumBalances(balances)
	}

	summary := ledger.Summarize(rows, q.filter(), s.now(), s.loc)
	result.Totals = summary.Totals
	return summary.Records, result, nil
}

// PendingQuery selects a pending-balances view
type PendingQuery struct {
	LedgerType     enum.LedgerType
	CounterpartyID string
	Status         string // "", "all", "unpaid", "paid", "partial", "pending"
}

// PendingView is the per-reference settlement table and its cards
type PendingView struct {
	Records   []ledger.PendingBalance `json:"records"`
	Totals    ledger.PendingTotals    `json:"totals"`
	Truncated bool                    `json:"truncated"`
}

// PendingBalances groups the ledger by reference. Totals are computed over the
// records after the status filter so cards match the table.
func (s *LedgerService) PendingBalances(ctx context.Context, q PendingQuery) (*PendingView, error) {
	if !validPendingStatus(q.Status) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "status", Message: "status must be one of all, unpaid, paid, partial, pending"},
		})
	}

	view, err := s.load(ctx, q.LedgerType, q.CounterpartyID)
	if err != nil {
		return nil, err
	}

	scope := ledger.ScopeAll
	if q.CounterpartyID != "" {
		scope = ledger.ScopeSingle
	}
	resolved, err := resolvePending(view.txs, scope)
	if err != nil {
		return nil, err
	}
	records := ledger.FilterPending(resolved, q.Status)
	return &PendingView{
		Records:   records,
		Totals:    ledger.SumPending(records),
		Truncated: view.truncated,
	}, nil
}

// ReferenceBalances resolves one order or invoice from every entry posted
// against it. The store is read directly: the entry cache and the fetch limit
// do not apply, so entries posted by other services since the last payment
// recorded here are counted. One record is returned per counterparty sharing
// the reference.
func (s *LedgerService) ReferenceBalances(ctx context.Context, ledgerType enum.LedgerType, counterpartyID, referenceID string) ([]ledger.PendingBalance, error) {
	view, err := s.loadEntries(ctx, repository.EntryFilter{
		LedgerType:  ledgerType,
		EntityID:    counterpartyID,
		ReferenceID: referenceID,
	}, false)
	if err != nil {
		return nil, err
	}

	resolved, err := resolvePending(view.txs, ledger.ScopeAll)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.PendingBalance, 0, len(resolved))
	for _, r := range resolved {
		if r.ReferenceID == referenceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func resolvePending(txs []ledger.Transaction, scope ledger.Scope) ([]ledger.PendingBalance, error) {
	records, err := ledger.ResolvePendingBalances(txs, scope)
	if errors.Is(err, ledger.ErrMixedCounterparties) {
		return nil, apperror.NewBadRequestError("Entries returned for more than one counterparty")
	}
	return records, err
}

func validPendingStatus(status string) bool {
	switch status {
	case "", "all", "unpaid":
		return true
	}
	return enum.PendingStatus(status).IsValid()
}

// BalancesView lists the closing balance of every counterparty on a ledger
type BalancesView struct {
	Balances []ledger.CounterpartyBalance `json:"balances"`
	Total    decimal.Decimal              `json:"total"`
}

// CounterpartyBalances runs the same per-counterparty fold the statement uses
func (s *LedgerService) CounterpartyBalances(ctx context.Context, ledgerType enum.LedgerType) (*BalancesView, error) {
	view, err := s.load(ctx, ledgerType, "")
	if err != nil {
		return nil, err
	}
	_, balances := ledger.BalancesByCounterparty(view.txs)
	return &BalancesView{Balances: balances, Total: ledger.SumBalances(balances)}, nil
}

// load fetches the newest entries of a ledger through the cache and normalizes them
func (s *LedgerService) load(ctx context.Context, ledgerType enum.LedgerType, counterpartyID string) (*ledgerView, error) {
	return s.loadEntries(ctx, repository.EntryFilter{
		LedgerType: ledgerType,
		EntityID:   counterpartyID,
		Limit:      s.fetchLimit,
	}, true)
}

// loadEntries normalizes the entries selected by filter. With cached false the
// store is read directly and nothing is written to the cache.
func (s *LedgerService) loadEntries(ctx context.Context, filter repository.EntryFilter, cached bool) (*ledgerView, error) {
	if !filter.LedgerType.IsValid() {
		return nil, apperror.NewNotFoundError("Ledger")
	}
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, errTenantRequired
	}

	var (
		raws []ledger.Entry
		err  error
	)
	if cached {
		raws, err = s.fetch(ctx, tenantID, filter)
	} else {
		raws, err = s.entries.FetchEntries(ctx, filter)
		if err != nil {
			err = storeError("fetch ledger entries", err)
		}
	}
	if err != nil {
		return nil, err
	}

	view := &ledgerView{
		txs:       ledger.NormalizeAll(raws, s.now()),
		truncated: filter.Limit > 0 && len(raws) >= filter.Limit,
	}
	if view.truncated {
		s.log.Warn("ledger fetch hit the limit, balances cover only the newest entries",
			zap.String("ledger_type", filter.LedgerType.String()),
			zap.String("counterparty_id", filter.EntityID),
			zap.Int("limit", filter.Limit),
		)
	}

	view.txs = s.fillNames(ctx, view.txs)
	return view, nil
}

func (s *LedgerService) fetch(ctx context.Context, tenantID uuid.UUID, filter repository.EntryFilter) ([]ledger.Entry, error) {
	cached, ok, err := s.cache.Get(ctx, tenantID, filter)
	if err != nil {
		s.log.Warn("ledger cache read failed", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	raws, err := s.entries.FetchEntries(ctx, filter)
	if err != nil {
		return nil, storeError("fetch ledger entries", err)
	}
	if err := s.cache.Set(ctx, tenantID, filter, raws); err != nil {
		s.log.Warn("ledger cache write failed", zap.Error(err))
	}
	return raws, nil
}

// fillNames looks up display names for counterparties that arrived as bare ids.
// A failed lookup leaves the names empty rather than failing the view.
func (s *LedgerService) fillNames(ctx context.Context, txs []ledger.Transaction) []ledger.Transaction {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, tx := range txs {
		if tx.CounterpartyName != nil || tx.CounterpartyID == "" {
			continue
		}
		if _, ok := seen[tx.CounterpartyID]; ok {
			continue
		}
		seen[tx.CounterpartyID] = struct{}{}
		ids = append(ids, tx.CounterpartyID)
	}
	if len(ids) == 0 {
		return txs
	}

	names, err := s.counterparties.GetNames(ctx, ids)
	if err != nil {
		s.log.Warn("counterparty name lookup failed", zap.Error(err), zap.Int("ids", len(ids)))
		return txs
	}
	return ledger.FillCounterpartyNames(txs, names)
}

// Location is the zone used for day boundaries
func (s *LedgerService) Location() *time.Location {
	return s.loc
}

// Now is the service clock
func (s *LedgerService) Now() time.Time {
	return s.now()
}

func exportFilename(q StatementQuery, now time.Time) string {
	scope := "all"
	if q.CounterpartyID != "" {
		scope = q.CounterpartyID
	}
	return fmt.Sprintf("%s-ledger-%s-%s.xlsx", q.LedgerType, scope, now.Format("20060102"))
}
