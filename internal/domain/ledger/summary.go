package ledger

import (
	"time"

	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Filter narrows a view. Zero-valued fields are not applied.
type Filter struct {
	DateFrom        *time.Time
	DateTo          *time.Time
	Method          enum.PaymentMethod
	TransactionType enum.TransactionType
	CounterpartyID  string
}

// Match reports whether tx satisfies every supplied filter. Dates are compared
// by calendar day in loc: DateFrom includes its whole day and so does DateTo.
// A method filter only matches payments that moved money through that method.
func (f Filter) Match(tx Transaction, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	if f.DateFrom != nil && tx.Date.Before(startOfDay(*f.DateFrom, loc)) {
		return false
	}
	if f.DateTo != nil && !tx.Date.Before(startOfDay(*f.DateTo, loc).AddDate(0, 0, 1)) {
		return false
	}
	if f.TransactionType != "" && tx.Type != f.TransactionType {
		return false
	}
	if f.CounterpartyID != "" && tx.CounterpartyID != f.CounterpartyID {
		return false
	}
	if f.Method != "" {
		if !tx.Type.IsPayment() {
			return false
		}
		switch f.Method {
		case enum.PaymentMethodCash:
			return tx.CashPaid.IsPositive()
		case enum.PaymentMethodBank:
			return tx.BankPaid.IsPositive()
		default:
			return false
		}
	}
	return true
}

// Apply keeps the transactions that match, preserving order
func (f Filter) Apply(txs []Transaction, loc *time.Location) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx, loc) {
			out = append(out, tx)
		}
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Totals are the summary cards shown above a ledger table
type Totals struct {
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	CashPaid       decimal.Decimal `json:"cash_paid"`
	BankPaid       decimal.Decimal `json:"bank_paid"`
	TotalPending   decimal.Decimal `json:"total_pending"`
	Count          int             `json:"count"`
	PaymentCount   int             `json:"payment_count"`
	CountThisMonth int             `json:"count_this_month"`
	PaidThisMonth  decimal.Decimal `json:"paid_this_month"`
}

// Summary is a filtered view and the totals computed from it
type Summary struct {
	Records []Transaction `json:"records"`
	Totals  Totals        `json:"totals"`
}

// Summarize filters txs and totals the result. Totals are always derived from
// the filtered records so cards and table agree.
func Summarize(txs []Transaction, f Filter, now time.Time, loc *time.Location) Summary {
	records := f.Apply(txs, loc)
	return Summary{
		Records: records,
		Totals:  TotalsOf(records, now, loc),
	}
}

// TotalsOf reduces records into Totals. "This month" is the calendar month of now in loc.
func TotalsOf(records []Transaction, now time.Time, loc *time.Location) Totals {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	t := Totals{
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		TotalPaid:     decimal.Zero,
		CashPaid:      decimal.Zero,
		BankPaid:      decimal.Zero,
		TotalPending:  decimal.Zero,
		PaidThisMonth: decimal.Zero,
		Count:         len(records),
	}
	for _, tx := range records {
		t.TotalDebit = t.TotalDebit.Add(tx.Debit)
		t.TotalCredit = t.TotalCredit.Add(tx.Credit)

		thisMonth := !tx.Date.Before(monthStart) && tx.Date.Before(monthEnd)
		if thisMonth {
			t.CountThisMonth++
		}
		if tx.Type.IsPayment() {
			t.PaymentCount++
			t.TotalPaid = t.TotalPaid.Add(tx.Credit)
			t.CashPaid = t.CashPaid.Add(tx.CashPaid)
			t.BankPaid = t.BankPaid.Add(tx.BankPaid)
			if thisMonth {
				t.PaidThisMonth = t.PaidThisMonth.Add(tx.Credit)
			}
		}
	}
	t.TotalPending = t.TotalDebit.Sub(t.TotalCredit)
	return t
}
