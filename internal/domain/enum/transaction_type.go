package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypePayment  TransactionType = "payment"
	TransactionTypeReturn   TransactionType = "return"
	TransactionTypeCharge   TransactionType = "charge"
	TransactionTypeReceipt  TransactionType = "receipt"
	TransactionTypeSale     TransactionType = "sale"
	TransactionTypeDiscount TransactionType = "discount"
)

func (t TransactionType) String() string {
	return string(t)
}

// IsPayment reports whether entries of this type settle an amount owed
func (t TransactionType) IsPayment() bool {
	return t == TransactionTypePayment
}

// IsValid reports whether t is a known transaction type
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypePayment, TransactionTypeReturn,
		TransactionTypeCharge, TransactionTypeReceipt, TransactionTypeSale, TransactionTypeDiscount:
		return true
	}
	return false
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON lower-cases the value; upstream emits both "Payment" and "payment"
func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = TransactionType(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *TransactionType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = TransactionType(v)
	case []byte:
		*t = TransactionType(string(v))
	case nil:
		*t = ""
	}
	return nil
}
