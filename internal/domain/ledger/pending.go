package ledger

import (
	"cmp"
	"slices"

	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

type pendingKey struct {
	counterpartyID string
	referenceID    string
}

// ResolvePendingBalances groups referenced transactions by the order or
// invoice they relate to and reports what is owed, paid and remaining.
// Transactions without a reference are skipped.
//
// With ScopeAll a record is produced per (counterparty, reference) pair; with
// ScopeSingle records are keyed by reference alone, and every transaction must
// share one counterparty, otherwise ErrMixedCounterparties is returned.
// Remaining is never clamped: an overpaid reference has a negative Amount and
// status paid.
func ResolvePendingBalances(txs []Transaction, scope Scope) ([]PendingBalance, error) {
	if scope != ScopeAll && spansCounterparties(txs) {
		return nil, ErrMixedCounterparties
	}

	groups := make(map[pendingKey]*PendingBalance)
	order := make([]pendingKey, 0)

	for _, tx := range SortChronological(txs) {
		if !tx.HasReference() {
			continue
		}
		key := pendingKey{referenceID: tx.ReferenceID}
		if scope == ScopeAll {
			key.counterpartyID = tx.CounterpartyID
		}

		rec, ok := groups[key]
		if !ok {
			rec = &PendingBalance{
				ReferenceID:    tx.ReferenceID,
				ReferenceLabel: tx.ReferenceLabel,
				ReferenceModel: tx.ReferenceModel,
				CounterpartyID: tx.CounterpartyID,
				Date:           tx.Date,
				TotalAmount:    decimal.Zero,
				TotalPaid:      decimal.Zero,
				Adjustments:    decimal.Zero,
				CashPaid:       decimal.Zero,
				BankPaid:       decimal.Zero,
			}
			groups[key] = rec
			order = append(order, key)
		}
		accumulate(rec, tx)
	}

	out := make([]PendingBalance, 0, len(order))
	for _, key := range order {
		rec := groups[key]
		rec.Amount = rec.TotalAmount.Sub(rec.TotalPaid).Sub(rec.Adjustments)
		rec.Status = pendingStatus(rec.TotalPaid, rec.Amount)
		rec.PaymentType = predominantMethod(rec.CashPaid, rec.BankPaid)
		out = append(out, *rec)
	}

	slices.SortStableFunc(out, func(a, b PendingBalance) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.CounterpartyID, b.CounterpartyID); c != 0 {
			return c
		}
		return cmp.Compare(a.ReferenceID, b.ReferenceID)
	})
	return out, nil
}

func accumulate(rec *PendingBalance, tx Transaction) {
	rec.EntryCount++
	if rec.CounterpartyName == nil && tx.CounterpartyName != nil {
		rec.CounterpartyName = tx.CounterpartyName
	}
	if rec.ReferenceLabel == NoReferenceLabel || rec.ReferenceLabel == rec.ReferenceID {
		if tx.ReferenceLabel != NoReferenceLabel && tx.ReferenceLabel != "" {
			rec.ReferenceLabel = tx.ReferenceLabel
		}
	}
	if rec.ReferenceModel == "" {
		rec.ReferenceModel = tx.ReferenceModel
	}

	if tx.Type.IsPayment() {
		rec.TotalPaid = rec.TotalPaid.Add(tx.Credit)
		rec.CashPaid = rec.CashPaid.Add(tx.CashPaid)
		rec.BankPaid = rec.BankPaid.Add(tx.BankPaid)
		// a debit on a payment reverses part of it
		rec.Adjustments = rec.Adjustments.Sub(tx.Debit)
		return
	}
	rec.TotalAmount = rec.TotalAmount.Add(tx.Debit)
	// returns and discounts reduce what is owed just like payments do
	rec.Adjustments = rec.Adjustments.Add(tx.Credit)
}

// pendingStatus: paid when nothing remains, pending when nothing was paid, partial otherwise
func pendingStatus(paid, remaining decimal.Decimal) enum.PendingStatus {
	switch {
	case !remaining.IsPositive():
		return enum.PendingStatusPaid
	case paid.IsZero():
		return enum.PendingStatusPending
	default:
		return enum.PendingStatusPartial
	}
}

func predominantMethod(cash, bank decimal.Decimal) enum.PaymentMethod {
	switch {
	case bank.GreaterThan(cash):
		return enum.PaymentMethodBank
	case cash.IsPositive():
		return enum.PaymentMethodCash
	}
	return ""
}

// PendingTotals are the summary cards above a pending-balances table
type PendingTotals struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	Count          int             `json:"count"`
	PaidCount      int             `json:"paid_count"`
	PartialCount   int             `json:"partial_count"`
	PendingCount   int             `json:"pending_count"`
}

// SumPending totals records by adding each record's own figures. Overpaid
// records contribute their negative remaining and are also reported in TotalCredit.
func SumPending(records []PendingBalance) PendingTotals {
	t := PendingTotals{
		TotalAmount:    decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalRemaining: decimal.Zero,
		TotalCredit:    decimal.Zero,
		Count:          len(records),
	}
	for _, r := range records {
		t.TotalAmount = t.TotalAmount.Add(r.TotalAmount)
		t.TotalPaid = t.TotalPaid.Add(r.TotalPaid)
		t.TotalRemaining = t.TotalRemaining.Add(r.Amount)
		if r.IsCredit() {
			t.TotalCredit = t.TotalCredit.Add(r.Amount.Neg())
		}
		switch r.Status {
		case enum.PendingStatusPaid:
			t.PaidCount++
		case enum.PendingStatusPartial:
			t.PartialCount++
		case enum.PendingStatusPending:
			t.PendingCount++
		}
	}
	return t
}

// FilterPending keeps records with the given status. "unpaid" keeps both
// pending and partial records; an empty status keeps everything.
func FilterPending(records []PendingBalance, status string) []PendingBalance {
	if status == "" || status == "all" {
		return slices.Clone(records)
	}
	out := make([]PendingBalance, 0, len(records))
	for _, r := range records {
		switch {
		case status == "unpaid" && r.Status != enum.PendingStatusPaid:
			out = append(out, r)
		case enum.PendingStatus(status) == r.Status:
			out = append(out, r)
		}
	}
	return out
}

// FindPending returns the record for a reference, if any
func FindPending(records []PendingBalance, referenceID string) (PendingBalance, bool) {
	for _, r := range records {
		if r.ReferenceID == referenceID {
			return r, true
		}
	}
	return PendingBalance{}, false
}
