package ledger

import (
	"time"

	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// UnknownCounterparty is shown for embedded counterparties that carry neither name nor company
const UnknownCounterparty = "Unknown"

// NoReferenceLabel is the label of entries that do not point at an order or invoice
const NoReferenceLabel = "-"

// Normalize converts a raw entry into a Transaction. seq is the entry's
// position in the fetched slice and breaks ordering ties; now is used when the
// entry carries neither date nor createdAt, in which case DateMissing is set.
//
// A bare counterparty id leaves CounterpartyName nil; the caller fills it from
// its own directory.
func Normalize(raw Entry, seq int, now time.Time) Transaction {
	tx := Transaction{
		ID:             raw.ID,
		Seq:            seq,
		Type:           raw.TransactionType,
		ReferenceModel: raw.ReferenceModel,
		CashPaid:       decimal.Zero,
		BankPaid:       decimal.Zero,
		Balance:        decimal.Zero,
		Description:    raw.Description,
	}
	tx.Debit, tx.Credit = sides(raw.Debit, raw.Credit)
	if tx.Description == "" {
		tx.Description = raw.Notes
	}

	switch {
	case raw.Date != nil:
		tx.Date = *raw.Date
	case raw.CreatedAt != nil:
		tx.Date = *raw.CreatedAt
	default:
		tx.Date = now
		tx.DateMissing = true
	}
	if raw.CreatedAt != nil {
		created := *raw.CreatedAt
		tx.CreatedAt = &created
	}

	tx.CounterpartyID = raw.EntityID.ID
	if raw.EntityID.Kind == RefEmbedded {
		name := counterpartyName(raw.EntityID)
		tx.CounterpartyName = &name
	}

	tx.ReferenceID, tx.ReferenceLabel = resolveReference(raw.ReferenceID)

	if raw.TransactionType.IsPayment() {
		tx.CashPaid, tx.BankPaid = splitPayment(raw, tx.Credit)
		tx.Method = paymentMethod(raw.PaymentMethod, tx.CashPaid, tx.BankPaid)
	}

	return tx
}

// NormalizeAll normalizes a fetched slice, numbering entries by position
func NormalizeAll(raws []Entry, now time.Time) []Transaction {
	out := make([]Transaction, len(raws))
	for i, raw := range raws {
		out[i] = Normalize(raw, i, now)
	}
	return out
}

// FillCounterpartyNames sets CounterpartyName on transactions that only had a
// bare id, using names keyed by counterparty id. Input is not modified.
func FillCounterpartyNames(txs []Transaction, names map[string]string) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	for i := range out {
		if out[i].CounterpartyName != nil {
			continue
		}
		if name, ok := names[out[i].CounterpartyID]; ok {
			n := name
			out[i].CounterpartyName = &n
		}
	}
	return out
}

func counterpartyName(ref Ref) string {
	if ref.Name != "" {
		return ref.Name
	}
	if ref.Company != "" {
		return ref.Company
	}
	return UnknownCounterparty
}

func resolveReference(ref Ref) (id, label string) {
	switch ref.Kind {
	case RefID:
		return ref.ID, ref.ID
	case RefEmbedded:
		id = ref.ID
		switch {
		case ref.OrderNumber != "":
			label = ref.OrderNumber
		case ref.PurchaseNumber != "":
			label = ref.PurchaseNumber
		default:
			label = ref.ID
		}
		if id == "" {
			// an embedded document without an id still identifies a reference by its label
			id = label
		}
		if label == "" {
			return "", NoReferenceLabel
		}
		return id, label
	}
	return "", NoReferenceLabel
}

// splitPayment attributes a payment's amount to cash and bank. An explicit
// method takes the whole credit; otherwise the paymentDetails breakdown is used.
func splitPayment(raw Entry, credit decimal.Decimal) (cash, bank decimal.Decimal) {
	switch raw.PaymentMethod {
	case enum.PaymentMethodCash:
		return credit, decimal.Zero
	case enum.PaymentMethodBank:
		return decimal.Zero, credit
	}
	if raw.PaymentDetails == nil {
		return decimal.Zero, decimal.Zero
	}
	return nonNegative(raw.PaymentDetails.CashPayment), nonNegative(raw.PaymentDetails.BankPayment)
}

func paymentMethod(explicit enum.PaymentMethod, cash, bank decimal.Decimal) enum.PaymentMethod {
	if explicit.IsValid() {
		return explicit
	}
	switch {
	case cash.IsPositive() && !bank.IsPositive():
		return enum.PaymentMethodCash
	case bank.IsPositive() && !cash.IsPositive():
		return enum.PaymentMethodBank
	}
	return ""
}

// sides moves a negative amount to the opposite side of the ledger, so a
// negative debit reads as a credit of the same size. Debit minus credit is
// unchanged.
func sides(debit, credit decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	d, c := decimal.Zero, decimal.Zero
	if debit.IsNegative() {
		c = c.Add(debit.Neg())
	} else {
		d = d.Add(debit)
	}
	if credit.IsNegative() {
		d = d.Add(credit.Neg())
	} else {
		c = c.Add(credit)
	}
	return d, c
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return d.Abs()
	}
	return d
}
