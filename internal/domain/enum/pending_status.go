package enum

import (
	"encoding/json"
)

// PendingStatus is the settlement state of a single reference (order, purchase, return)
type PendingStatus string

const (
	PendingStatusPaid    PendingStatus = "paid"
	PendingStatusPartial PendingStatus = "partial"
	PendingStatusPending PendingStatus = "pending"
)

func (s PendingStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s PendingStatus) IsValid() bool {
	switch s {
	case PendingStatusPaid, PendingStatusPartial, PendingStatusPending:
		return true
	}
	return false
}

func (s PendingStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *PendingStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "Paid", "paid":
		*s = PendingStatusPaid
	case "Partial", "partial":
		*s = PendingStatusPartial
	default:
		*s = PendingStatusPending
	}
	return nil
}
