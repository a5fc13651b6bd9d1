package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ValidationError rejects a payment before anything is written
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PaymentRequest is the input of the mark-as-paid action
type PaymentRequest struct {
	LedgerType     enum.LedgerType
	CounterpartyID string
	Amount         float64
	Method         enum.PaymentMethod
	ReferenceID    string
	ReferenceModel enum.ReferenceModel
	Date           *time.Time
	Description    string
}

// Validate checks the request fields in the order the form shows them
func (r PaymentRequest) Validate() error {
	if strings.TrimSpace(r.CounterpartyID) == "" {
		return &ValidationError{Field: "counterparty", Message: "counterparty is required"}
	}
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) || !roundedAmount(r.Amount).IsPositive() {
		return &ValidationError{Field: "amount", Message: "amount must be a positive number of at least 0.01"}
	}
	if !r.Method.IsValid() {
		return &ValidationError{Field: "method", Message: "method must be cash or bank"}
	}
	return nil
}

// NewPayment builds the payment entry to hand to the ledger store.
//
// The amount is not compared with what is still owed on the reference: an
// overpayment is recorded as-is and shows up as a negative remaining (credit
// in the counterparty's favour) the next time balances are resolved. That is
// a business rule; a cap would have to be agreed with finance first.
func NewPayment(req PaymentRequest) (Entry, error) {
	if err := req.Validate(); err != nil {
		return Entry{}, err
	}

	amount := roundedAmount(req.Amount)
	details := &PaymentDetails{
		CashPayment:      decimal.Zero,
		BankPayment:      decimal.Zero,
		RemainingBalance: decimal.Zero,
	}
	if req.Method == enum.PaymentMethodCash {
		details.CashPayment = amount
	} else {
		details.BankPayment = amount
	}

	entry := Entry{
		LedgerType:      req.LedgerType,
		Date:            req.Date,
		TransactionType: enum.TransactionTypePayment,
		EntityID:        IDRef(strings.TrimSpace(req.CounterpartyID)),
		ReferenceID:     IDRef(strings.TrimSpace(req.ReferenceID)),
		Debit:           decimal.Zero,
		Credit:          amount,
		PaymentMethod:   req.Method,
		PaymentDetails:  details,
		Description:     req.Description,
	}
	if !entry.ReferenceID.IsZero() {
		entry.ReferenceModel = req.ReferenceModel
	}
	if entry.Description == "" {
		entry.Description = defaultPaymentDescription(req)
	}
	return entry, nil
}

// roundedAmount is the amount as it will be stored, in cents
func roundedAmount(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

func defaultPaymentDescription(req PaymentRequest) string {
	if req.ReferenceID == "" {
		return fmt.Sprintf("%s payment", req.Method)
	}
	return fmt.Sprintf("%s payment against %s", req.Method, req.ReferenceID)
}
