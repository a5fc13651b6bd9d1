package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RefKind tells which arm of the Ref union is populated
type RefKind int

const (
	RefNone RefKind = iota
	RefID
	RefEmbedded
)

// Ref is a pointer to another document as the ledger API sends it: absent,
// a bare id string, or an embedded object carrying display fields.
// The Normalizer resolves it once so nothing downstream branches on shape.
type Ref struct {
	Kind           RefKind
	ID             string
	Name           string
	Company        string
	OrderNumber    string
	PurchaseNumber string
}

// IDRef builds a bare-id reference; an empty id yields RefNone
func IDRef(id string) Ref {
	if id == "" {
		return Ref{}
	}
	return Ref{Kind: RefID, ID: id}
}

// IsZero reports whether the reference is absent
func (r Ref) IsZero() bool {
	return r.Kind == RefNone
}

// Key is the reference id as the Normalizer resolves it: the id when there is
// one, otherwise an embedded document's order or purchase number.
func (r Ref) Key() string {
	id, _ := resolveReference(r)
	return id
}

// embeddedRef is the wire shape of an embedded document
type embeddedRef struct {
	MongoID        string `json:"_id,omitempty"`
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Company        string `json:"company,omitempty"`
	OrderNumber    string `json:"orderNumber,omitempty"`
	PurchaseNumber string `json:"purchaseNumber,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = IDRef(id)
		return nil
	case '{':
		var e embeddedRef
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		id := e.MongoID
		if id == "" {
			id = e.ID
		}
		*r = Ref{
			Kind:           RefEmbedded,
			ID:             id,
			Name:           e.Name,
			Company:        e.Company,
			OrderNumber:    e.OrderNumber,
			PurchaseNumber: e.PurchaseNumber,
		}
		return nil
	}
	return fmt.Errorf("ledger: unsupported reference value %s", string(data))
}

func (r Ref) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RefID:
		return json.Marshal(r.ID)
	case RefEmbedded:
		return json.Marshal(embeddedRef{
			MongoID:        r.ID,
			Name:           r.Name,
			Company:        r.Company,
			OrderNumber:    r.OrderNumber,
			PurchaseNumber: r.PurchaseNumber,
		})
	}
	return []byte("null"), nil
}
