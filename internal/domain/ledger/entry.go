// Package ledger derives balances from a bag of counterparty ledger entries.
//
// Raw entries arrive unordered and in several shapes. Normalize turns each one
// into a Transaction; ComputeRunningBalances folds debit minus credit in
// chronological order; ResolvePendingBalances groups by the order or invoice an
// entry refers to; Summarize filters and totals a view. NewPayment builds the
// only entry this package ever creates. Every function here is pure: inputs are
// never mutated and no I/O happens.
package ledger

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PaymentDetails is the optional cash/bank breakdown of a payment entry
type PaymentDetails struct {
	CashPayment      decimal.Decimal `json:"cashPayment"`
	BankPayment      decimal.Decimal `json:"bankPayment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// Entry is a ledger entry exactly as the ledger store returns it
type Entry struct {
	ID              string               `json:"id"`
	LedgerType      enum.LedgerType      `json:"ledgerType,omitempty"`
	Date            *time.Time           `json:"date,omitempty"`
	CreatedAt       *time.Time           `json:"createdAt,omitempty"`
	TransactionType enum.TransactionType `json:"transactionType"`
	EntityID        Ref                  `json:"entityId"`
	ReferenceID     Ref                  `json:"referenceId"`
	ReferenceModel  enum.ReferenceModel  `json:"referenceModel,omitempty"`
	Debit           decimal.Decimal      `json:"debit"`
	Credit          decimal.Decimal      `json:"credit"`
	PaymentMethod   enum.PaymentMethod   `json:"paymentMethod,omitempty"`
	PaymentDetails  *PaymentDetails      `json:"paymentDetails,omitempty"`
	Description     string               `json:"description,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}

// UnmarshalJSON accepts "_id" as well as "id", and drops timestamps it cannot
// parse instead of failing the whole entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type alias Entry
	aux := struct {
		*alias
		MongoID   string          `json:"_id"`
		Date      json.RawMessage `json:"date"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = aux.MongoID
	}
	e.Date = parseTimestamp(aux.Date)
	e.CreatedAt = parseTimestamp(aux.CreatedAt)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Transaction is the canonical form of an Entry.
// Balance is only meaningful once BalanceComputed is set by ComputeRunningBalances.
type Transaction struct {
	ID               string               `json:"id"`
	Date             time.Time            `json:"date"`
	DateMissing      bool                 `json:"date_missing,omitempty"`
	CreatedAt        *time.Time           `json:"-"`
	Seq              int                  `json:"-"`
	Type             enum.TransactionType `json:"type"`
	CounterpartyID   string               `json:"counterparty_id"`
	CounterpartyName *string              `json:"counterparty_name"`
	ReferenceID      string               `json:"reference_id,omitempty"`
	ReferenceLabel   string               `json:"reference_label"`
	ReferenceModel   enum.ReferenceModel  `json:"reference_model,omitempty"`
	Method           enum.PaymentMethod   `json:"payment_method,omitempty"`
	Debit            decimal.Decimal      `json:"debit"`
	Credit           decimal.Decimal      `json:"credit"`
	CashPaid         decimal.Decimal      `json:"cash_paid"`
	BankPaid         decimal.Decimal      `json:"bank_paid"`
	Balance          decimal.Decimal      `json:"balance"`
	BalanceComputed  bool                 `json:"-"`
	Description      string               `json:"description,omitempty"`
}

// HasReference reports whether the transaction belongs to an order or invoice
func (t Transaction) HasReference() bool {
	return t.ReferenceID != ""
}

// PendingBalance is the settlement state of one reference for one counterparty
type PendingBalance struct {
	ReferenceID      string              `json:"reference_id"`
	ReferenceLabel   string              `json:"reference_label"`
	ReferenceModel   enum.ReferenceModel `json:"reference_model,omitempty"`
	CounterpartyID   string              `json:"counterparty_id"`
	CounterpartyName *string             `json:"counterparty_name"`
	Date             time.Time           `json:"date"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	TotalPaid        decimal.Decimal     `json:"total_paid"`
	Adjustments      decimal.Decimal     `json:"adjustments"`
	Amount           decimal.Decimal     `json:"amount"`
	CashPaid         decimal.Decimal     `json:"cash_paid"`
	BankPaid         decimal.Decimal     `json:"bank_paid"`
	PaymentType      enum.PaymentMethod  `json:"payment_type,omitempty"`
	Status           enum.PendingStatus  `json:"status"`
	EntryCount       int                 `json:"entry_count"`
}

// IsCredit reports whether the counterparty has paid more than it owes on this reference
func (p PendingBalance) IsCredit() bool {
	return p.Amount.IsNegative()
}

// Scope selects whether a computation covers one counterparty or all of them
type Scope string

const (
	ScopeSingle Scope = "single"
	ScopeAll    Scope = "all"
)
