package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LedgerType identifies which book a counterparty and its entries belong to
type LedgerType string

const (
	LedgerTypeSupplier  LedgerType = "supplier"
	LedgerTypeBuyer     LedgerType = "buyer"
	LedgerTypeLogistics LedgerType = "logistics"
)

// LedgerTypes lists every supported ledger
var LedgerTypes = []LedgerType{LedgerTypeSupplier, LedgerTypeBuyer, LedgerTypeLogistics}

func (t LedgerType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known ledgers
func (t LedgerType) IsValid() bool {
	switch t {
	case LedgerTypeSupplier, LedgerTypeBuyer, LedgerTypeLogistics:
		return true
	}
	return false
}

// ParseLedgerType converts a path or query value into a LedgerType.
// "suppliers", "buyers" and "logistics-companies" are accepted as aliases.
func ParseLedgerType(s string) (LedgerType, bool) {
	switch s {
	case "supplier", "suppliers":
		return LedgerTypeSupplier, true
	case "buyer", "buyers":
		return LedgerTypeBuyer, true
	case "logistics", "logistics-companies", "logistics-company":
		return LedgerTypeLogistics, true
	}
	return "", false
}

func (t LedgerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *LedgerType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = LedgerType(str)
	return nil
}

func (t LedgerType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *LedgerType) Scan(value interface{}) error {
	if value == nil {
		*t = LedgerTypeSupplier
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = LedgerType(v)
	case []byte:
		*t = LedgerType(string(v))
	}
	return nil
}
