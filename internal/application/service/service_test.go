package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/ledger"
	"github.com/sangkips/tradebook-api/internal/domain/repository"
	infraRepo "github.com/sangkips/tradebook-api/internal/infrastructure/repository"
	"github.com/sangkips/tradebook-api/internal/infrastructure/store/memory"
	"github.com/sangkips/tradebook-api/pkg/apperror"
	"github.com/sangkips/tradebook-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	day1     = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	day2     = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	day3     = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	fixedNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
)

// mapCache is an in-process LedgerCache that counts invalidations
type mapCache struct {
	sets          map[string][]ledger.Entry
	invalidations int
}

func newMapCache() *mapCache {
	return &mapCache{sets: make(map[string][]ledger.Entry)}
}

func cacheKey(tenantID uuid.UUID, f repository.EntryFilter) string {
	return tenantID.String() + "|" + string(f.LedgerType) + "|" + f.EntityID + "|" + f.ReferenceID
}

func (c *mapCache) Get(_ context.Context, tenantID uuid.UUID, f repository.EntryFilter) ([]ledger.Entry, bool, error) {
	e, ok := c.sets[cacheKey(tenantID, f)]
	return e, ok, nil
}

func (c *mapCache) Set(_ context.Context, tenantID uuid.UUID, f repository.EntryFilter, entries []ledger.Entry) error {
	c.sets[cacheKey(tenantID, f)] = entries
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, _ uuid.UUID, _ enum.LedgerType) error {
	c.invalidations++
	c.sets = make(map[string][]ledger.Entry)
	return nil
}

type recordingPublisher struct {
	events []repository.PaymentRecordedEvent
	err    error
}

func (p *recordingPublisher) PublishPaymentRecorded(_ context.Context, e repository.PaymentRecordedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// countingEntries wraps a ledger store and counts writes
type countingEntries struct {
	repository.LedgerEntryRepository
	creates  int
	fetchErr error
	writeErr error
}

func (c *countingEntries) FetchEntries(ctx context.Context, f repository.EntryFilter) ([]ledger.Entry, error) {
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.LedgerEntryRepository.FetchEntries(ctx, f)
}

func (c *countingEntries) CreateEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
	c.creates++
	if c.writeErr != nil {
		return ledger.Entry{}, c.writeErr
	}
	return c.LedgerEntryRepository.CreateEntry(ctx, e)
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	entries   *countingEntries
	cache     *mapCache
	publisher *recordingPublisher
	ledgers   *LedgerService
	payments  *PaymentService
	acme      *entity.Counterparty
	beta      *entity.Counterparty
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	tenantID := uuid.New()

	f := &fixture{
		ctx:       infraRepo.WithTenant(context.Background(), tenantID),
		store:     memory.NewStore(memory.WithClock(clock)),
		cache:     newMapCache(),
		publisher: &recordingPublisher{},
	}
	f.entries = &countingEntries{LedgerEntryRepository: f.store}

	f.acme = &entity.Counterparty{Type: enum.LedgerTypeSupplier, Name: "Acme"}
	f.beta = &entity.Counterparty{Type: enum.LedgerTypeSupplier, Name: "Beta"}
	require.NoError(t, f.store.Counterparties().Create(f.ctx, f.acme))
	require.NoError(t, f.store.Counterparties().Create(f.ctx, f.beta))

	acme, beta := f.acme.ID.String(), f.beta.ID.String()
	f.store.Add(tenantID,
		rawEntry("e1", acme, "po-1", enum.TransactionTypePurchase, "500", "0", "", day1),
		rawEntry("e2", acme, "po-1", enum.TransactionTypePayment, "0", "200", enum.PaymentMethodCash, day2),
		rawEntry("e3", beta, "po-2", enum.TransactionTypePurchase, "80", "0", "", day2),
		rawEntry("e4", acme, "po-3", enum.TransactionTypePurchase, "40", "0", "", day3),
	)

	f.ledgers = NewLedgerService(f.entries, f.store.Counterparties(), f.cache, zap.NewNop(), LedgerOptions{
		Location: time.UTC,
		Now:      clock,
	})
	f.payments = NewPaymentService(f.entries, f.store.Counterparties(), f.ledgers, f.cache, f.publisher, zap.NewNop())
	return f
}

func rawEntry(id, counterparty, ref string, typ enum.TransactionType, debit, credit string, method enum.PaymentMethod, date time.Time) ledger.Entry {
	d := date
	return ledger.Entry{
		ID:              id,
		LedgerType:      enum.LedgerTypeSupplier,
		Date:            &d,
		TransactionType: typ,
		EntityID:        ledger.IDRef(counterparty),
		ReferenceID:     ledger.IDRef(ref),
		Debit:           decimal.RequireFromString(debit),
		Credit:          decimal.RequireFromString(credit),
		PaymentMethod:   method,
	}
}

func balances(records []ledger.Transaction) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Balance.String()
	}
	return out
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestStatementSingleCounterparty(t *testing.T) {
	f := newFixture(t)

	st, err := f.ledgers.Statement(f.ctx, StatementQuery{
		LedgerType:     enum.LedgerTypeSupplier,
		CounterpartyID: f.acme.ID.String(),
	})
	require.NoError(t, err)

	// newest first
	assert.Equal(t, []string{"340", "300", "500"}, balances(st.Records))
	assert.Equal(t, "340", st.ClosingBalance.String())
	require.NotNil(t, st.Records[0].CounterpartyName)
	assert.Equal(t, "Acme", *st.Records[0].CounterpartyName)
	assert.Equal(t, int64(3), st.Pagination.Total)
	assert.False(t, st.Truncated)
	assert.Empty(t, st.Counterparties)
}

func TestStatementAllCounterparties(t *testing.T) {
	f := newFixture(t)

	st, err := f.ledgers.Statement(f.ctx, StatementQuery{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)

	require.Len(t, st.Records, 4)
	byID := make(map[string]string)
	for _, r := range st.Records {
		byID[r.ID] = r.Balance.String()
	}
	// each row carries its own counterparty's balance
	assert.Equal(t, "80", byID["e3"])
	assert.Equal(t, "340", byID["e4"])
	assert.Equal(t, "e4", st.Records[0].ID)

	require.Len(t, st.Counterparties, 2)
	assert.Equal(t, "420", st.ClosingBalance.String())
}

func TestStatementFiltersAndPages(t *testing.T) {
	f := newFixture(t)

	st, err := f.ledgers.Statement(f.ctx, StatementQuery{
		LedgerType: enum.LedgerTypeSupplier,
		Method:     enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Len(t, st.Records, 1)
	assert.Equal(t, "200", st.Totals.TotalPaid.String())
	assert.Equal(t, "200", st.Totals.CashPaid.String())
	// balance is the running balance before filtering
	assert.Equal(t, "300", st.Records[0].Balance.String())

	paged, err := f.ledgers.Statement(f.ctx, StatementQuery{
		LedgerType: enum.LedgerTypeSupplier,
		Pagination: &pagination.PaginationParams{Page: 2, PerPage: 3},
	})
	require.NoError(t, err)
	assert.Len(t, paged.Records, 1)
	assert.Equal(t, 4, paged.Totals.Count)
}

func TestStatementErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledgers.Statement(f.ctx, StatementQuery{LedgerType: "vendors"})
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	_, err = f.ledgers.Statement(context.Background(), StatementQuery{LedgerType: enum.LedgerTypeSupplier})
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	f.entries.fetchErr = errors.New("connection reset")
	_, err = f.ledgers.Statement(f.ctx, StatementQuery{LedgerType: enum.LedgerTypeBuyer})
	assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
}

func TestStatementUsesCache(t *testing.T) {
	f := newFixture(t)
	q := StatementQuery{LedgerType: enum.LedgerTypeSupplier}

	_, err := f.ledgers.Statement(f.ctx, q)
	require.NoError(t, err)

	f.entries.fetchErr = errors.New("store is down")
	st, err := f.ledgers.Statement(f.ctx, q)
	require.NoError(t, err)
	assert.Len(t, st.Records, 4)
}

func TestStatementSeesPaymentAfterWrite(t *testing.T) {
	f := newFixture(t)
	q := StatementQuery{LedgerType: enum.LedgerTypeSupplier}

	before, err := f.ledgers.Statement(f.ctx, q)
	require.NoError(t, err)
	require.Len(t, before.Records, 4)
	require.NotEmpty(t, f.cache.sets)

	_, err = f.payments.RecordPayment(f.ctx, &RecordPaymentInput{
		LedgerType:     enum.LedgerTypeSupplier,
		CounterpartyID: f.beta.ID.String(),
		Amount:         30,
		Method:         enum.PaymentMethodBank,
		ReferenceID:    "po-2",
	})
	require.NoError(t, err)

	after, err := f.ledgers.Statement(f.ctx, q)
	require.NoError(t, err)
	assert.Len(t, after.Records, 5)
	assert.Equal(t, "390", after.ClosingBalance.String())
}

func TestStatementTruncated(t *testing.T) {
	f := newFixture(t)
	svc := NewLedgerService(f.entries, f.store.Counterparties(), newMapCache(), zap.NewNop(), LedgerOptions{
		FetchLimit: 2,
		Now:        func() time.Time { return fixedNow },
	})

	st, err := svc.Statement(f.ctx, StatementQuery{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)
	assert.True(t, st.Truncated)
	assert.Len(t, st.Records, 2)
}

func TestPendingBalances(t *testing.T) {
	f := newFixture(t)

	view, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)
	require.Len(t, view.Records, 3)
	assert.Equal(t, "420", view.Totals.TotalRemaining.String())
	assert.Equal(t, 1, view.Totals.PartialCount)
	assert.Equal(t, 2, view.Totals.PendingCount)

	partial, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier, Status: "partial"})
	require.NoError(t, err)
	require.Len(t, partial.Records, 1)
	assert.Equal(t, "po-1", partial.Records[0].ReferenceID)
	assert.Equal(t, "300", partial.Totals.TotalRemaining.String())

	_, err = f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier, Status: "overdue"})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
}

func TestCounterpartyBalances(t *testing.T) {
	f := newFixture(t)

	view, err := f.ledgers.CounterpartyBalances(f.ctx, enum.LedgerTypeSupplier)
	require.NoError(t, err)
	require.Len(t, view.Balances, 2)
	assert.Equal(t, "420", view.Total.String())

	st, err := f.ledgers.Statement(f.ctx, StatementQuery{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(st.ClosingBalance))
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input RecordPaymentInput
		field string
	}{
		{name: "zero amount", input: RecordPaymentInput{CounterpartyID: f.acme.ID.String(), Amount: 0, Method: enum.PaymentMethodCash}, field: "amount"},
		{name: "bad method", input: RecordPaymentInput{CounterpartyID: f.acme.ID.String(), Amount: 10, Method: "card"}, field: "method"},
		{name: "no counterparty", input: RecordPaymentInput{Amount: 10, Method: enum.PaymentMethodBank}, field: "counterparty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.LedgerType = enum.LedgerTypeSupplier
			_, err := f.payments.RecordPayment(f.ctx, &in)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
			require.Len(t, appErr.Errors, 1)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}
	assert.Zero(t, f.entries.creates)
	assert.Empty(t, f.publisher.events)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	// warm the cache so invalidation is observable
	_, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)

	entry, err := f.payments.RecordPayment(f.ctx, &RecordPaymentInput{
		LedgerType:     enum.LedgerTypeSupplier,
		CounterpartyID: f.acme.ID.String(),
		Amount:         100,
		Method:         enum.PaymentMethodBank,
		ReferenceID:    "po-1",
		ReferenceModel: enum.ReferenceModelPurchase,
		RecordedBy:     userID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	require.NotNil(t, entry.Date)
	assert.Equal(t, fixedNow, *entry.Date)

	assert.Equal(t, 1, f.cache.invalidations)
	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, entry.ID, ev.EntryID)
	assert.Equal(t, "100.00", ev.Amount)
	assert.Equal(t, userID.String(), ev.RecordedBy)

	view, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier, CounterpartyID: f.acme.ID.String()})
	require.NoError(t, err)
	rec, ok := ledger.FindPending(view.Records, "po-1")
	require.True(t, ok)
	assert.Equal(t, "200", rec.Amount.String())
	assert.Equal(t, enum.PaymentMethodCash, rec.PaymentType)
}

func TestRecordPaymentFailures(t *testing.T) {
	t.Run("unknown counterparty", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.payments.RecordPayment(f.ctx, &RecordPaymentInput{
			LedgerType: enum.LedgerTypeSupplier, CounterpartyID: uuid.NewString(), Amount: 5, Method: enum.PaymentMethodCash,
		})
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
		assert.Zero(t, f.entries.creates)
	})

	t.Run("store failure is upstream", func(t *testing.T) {
		f := newFixture(t)
		f.entries.writeErr = errors.New("timeout")
		_, err := f.payments.RecordPayment(f.ctx, &RecordPaymentInput{
			LedgerType: enum.LedgerTypeSupplier, CounterpartyID: f.acme.ID.String(), Amount: 5, Method: enum.PaymentMethodCash,
		})
		assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
		assert.Zero(t, f.cache.invalidations)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("publish failure does not fail the payment", func(t *testing.T) {
		f := newFixture(t)
		f.publisher.err = errors.New("no brokers")
		_, err := f.payments.RecordPayment(f.ctx, &RecordPaymentInput{
			LedgerType: enum.LedgerTypeSupplier, CounterpartyID: f.acme.ID.String(), Amount: 5, Method: enum.PaymentMethodCash,
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, f.entries.creates)
	})
}

func TestRecordPaymentAllowsOverpayment(t *testing.T) {
	f := newFixture(t)

	_, err := f.payments.RecordPayment(f.ctx, &RecordPaymentInput{
		LedgerType:     enum.LedgerTypeSupplier,
		CounterpartyID: f.beta.ID.String(),
		Amount:         130,
		Method:         enum.PaymentMethodCash,
		ReferenceID:    "po-2",
	})
	require.NoError(t, err)

	view, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier, CounterpartyID: f.beta.ID.String()})
	require.NoError(t, err)
	rec, ok := ledger.FindPending(view.Records, "po-2")
	require.True(t, ok)
	assert.Equal(t, "-50", rec.Amount.String())
	assert.Equal(t, enum.PendingStatusPaid, rec.Status)
	assert.Equal(t, "50", view.Totals.TotalCredit.String())
}

func TestMarkAsPaid(t *testing.T) {
	f := newFixture(t)

	result, err := f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{
		LedgerType:  enum.LedgerTypeSupplier,
		ReferenceID: "po-1",
		Method:      enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "300", result.Payment.Credit.String())
	assert.Equal(t, f.acme.ID.String(), result.Payment.EntityID.ID)
	assert.Equal(t, enum.PendingStatusPartial, result.Before.Status)

	view, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)
	rec, ok := ledger.FindPending(view.Records, "po-1")
	require.True(t, ok)
	assert.True(t, rec.Amount.IsZero())
	assert.Equal(t, enum.PendingStatusPaid, rec.Status)

	_, err = f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-1", Method: enum.PaymentMethodCash})
	assert.Equal(t, http.StatusConflict, appCode(t, err))

	_, err = f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-404", Method: enum.PaymentMethodCash})
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	_, err = f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-3", Method: "card"})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
}

func TestMarkAsPaidReadsCurrentStore(t *testing.T) {
	t.Run("reference settled elsewhere after the cache was filled", func(t *testing.T) {
		f := newFixture(t)
		tenantID, _ := infraRepo.GetTenantID(f.ctx)

		view, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier})
		require.NoError(t, err)
		cached, ok := ledger.FindPending(view.Records, "po-3")
		require.True(t, ok)
		require.Equal(t, "40", cached.Amount.String())

		f.store.Add(tenantID, rawEntry("e5", f.acme.ID.String(), "po-3", enum.TransactionTypePayment, "0", "40", enum.PaymentMethodBank, day3.Add(time.Hour)))

		_, err = f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-3", Method: enum.PaymentMethodCash})
		assert.Equal(t, http.StatusConflict, appCode(t, err))
		assert.Zero(t, f.entries.creates)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("partial payment posted elsewhere", func(t *testing.T) {
		f := newFixture(t)
		tenantID, _ := infraRepo.GetTenantID(f.ctx)

		_, err := f.ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier})
		require.NoError(t, err)
		f.store.Add(tenantID, rawEntry("e5", f.acme.ID.String(), "po-3", enum.TransactionTypePayment, "0", "15", enum.PaymentMethodCash, day3.Add(time.Hour)))

		result, err := f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-3", Method: enum.PaymentMethodBank})
		require.NoError(t, err)
		assert.Equal(t, "25", result.Payment.Credit.String())
		assert.Equal(t, "25", result.Before.Amount.String())
		assert.Equal(t, 1, f.entries.creates)
	})
}

func TestMarkAsPaidIgnoresFetchLimit(t *testing.T) {
	f := newFixture(t)
	// the two newest entries are e4 and e3; po-1 lies outside the window
	ledgers := NewLedgerService(f.entries, f.store.Counterparties(), newMapCache(), zap.NewNop(), LedgerOptions{
		FetchLimit: 2,
		Now:        func() time.Time { return fixedNow },
	})
	payments := NewPaymentService(f.entries, f.store.Counterparties(), ledgers, f.cache, f.publisher, zap.NewNop())

	view, err := ledgers.PendingBalances(f.ctx, PendingQuery{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)
	require.True(t, view.Truncated)
	_, ok := ledger.FindPending(view.Records, "po-1")
	require.False(t, ok)

	result, err := payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-1", Method: enum.PaymentMethodCash})
	require.NoError(t, err)
	assert.Equal(t, "300", result.Payment.Credit.String())
	assert.Equal(t, "500", result.Before.TotalAmount.String())
	assert.Equal(t, "200", result.Before.TotalPaid.String())
}

func TestReferenceBalances(t *testing.T) {
	f := newFixture(t)
	tenantID, _ := infraRepo.GetTenantID(f.ctx)
	f.store.Add(tenantID, rawEntry("e5", f.beta.ID.String(), "po-1", enum.TransactionTypePurchase, "60", "0", "", day3))

	records, err := f.ledgers.ReferenceBalances(f.ctx, enum.LedgerTypeSupplier, "", "po-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	_, err = f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-1", Method: enum.PaymentMethodCash})
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	result, err := f.payments.MarkAsPaid(f.ctx, &MarkAsPaidInput{
		LedgerType:     enum.LedgerTypeSupplier,
		ReferenceID:    "po-1",
		CounterpartyID: f.beta.ID.String(),
		Method:         enum.PaymentMethodBank,
	})
	require.NoError(t, err)
	assert.Equal(t, "60", result.Payment.Credit.String())

	f.entries.fetchErr = errors.New("store is down")
	_, err = f.ledgers.ReferenceBalances(f.ctx, enum.LedgerTypeSupplier, "", "po-1")
	assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
}

func TestExportStatement(t *testing.T) {
	f := newFixture(t)

	export, err := f.ledgers.ExportStatement(f.ctx, StatementQuery{
		LedgerType:     enum.LedgerTypeSupplier,
		CounterpartyID: f.acme.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "supplier-ledger-"+f.acme.ID.String()+"-20250320.xlsx", export.Filename)

	wb, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Statement")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "2025-03-01", rows[1][0])
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "500.00", rows[1][8])

	pending, err := wb.GetRows("Pending")
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestCounterpartyService(t *testing.T) {
	f := newFixture(t)
	svc := NewCounterpartyService(f.store.Counterparties())

	_, err := svc.CreateCounterparty(f.ctx, &CreateCounterpartyInput{Type: "vendor"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Len(t, appErr.Errors, 2)

	company := "Swift Freight"
	created, err := svc.CreateCounterparty(f.ctx, &CreateCounterpartyInput{Type: enum.LedgerTypeLogistics, Company: &company})
	require.NoError(t, err)

	got, err := svc.GetCounterparty(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Swift Freight", got.DisplayName())

	_, err = svc.GetCounterparty(f.ctx, uuid.New())
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	list, err := svc.ListCounterparties(f.ctx, &repository.CounterpartyFilterParams{Type: enum.LedgerTypeSupplier})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)
}
