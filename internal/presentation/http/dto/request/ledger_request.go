package request

// StatementQuery is the query string of the statement and export endpoints.
// page and per_page are read separately.
type StatementQuery struct {
	EntityID        string `form:"entity_id"`
	DateFrom        string `form:"date_from"`
	DateTo          string `form:"date_to"`
	Method          string `form:"method"`
	TransactionType string `form:"transaction_type"`
}

// PendingQuery is the query string of the pending-balances endpoint
type PendingQuery struct {
	EntityID string `form:"entity_id"`
	Status   string `form:"status"`
}

// RecordPaymentRequest represents the record payment request body.
// Field checks happen in the service so that all of them return 422.
type RecordPaymentRequest struct {
	EntityID       string  `json:"entity_id"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
	ReferenceID    string  `json:"reference_id"`
	ReferenceModel string  `json:"reference_model"`
	Date           string  `json:"date"`
	Description    string  `json:"description"`
}

// MarkAsPaidRequest represents the mark-as-paid request body
type MarkAsPaidRequest struct {
	EntityID string `json:"entity_id"`
	Method   string `json:"method"`
	Date     string `json:"date"`
}

// CreateCounterpartyRequest represents the create counterparty request body
type CreateCounterpartyRequest struct {
	Type          string  `json:"type" binding:"required"`
	Name          string  `json:"name"`
	Company       *string `json:"company"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	KRAPin        *string `json:"kra_pin"`
	AccountHolder *string `json:"account_holder"`
	AccountNumber *string `json:"account_number"`
	BankName      *string `json:"bank_name"`
}
