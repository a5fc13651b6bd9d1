package enum

// ReferenceModel names the document kind a ledger entry points at
type ReferenceModel string

const (
	ReferenceModelDispatchOrder ReferenceModel = "DispatchOrder"
	ReferenceModelPurchase      ReferenceModel = "Purchase"
	ReferenceModelReturn        ReferenceModel = "Return"
)

func (m ReferenceModel) String() string {
	return string(m)
}
