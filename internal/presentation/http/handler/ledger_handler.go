package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tradebook-api/internal/application/service"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tradebook-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tradebook-api/pkg/apperror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LedgerHandler handles ledger-related HTTP requests
type LedgerHandler struct {
	ledgerService  *service.LedgerService
	paymentService *service.PaymentService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService, paymentService *service.PaymentService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:  ledgerService,
		paymentService: paymentService,
	}
}

// Entries handles the running-balance statement
func (h *LedgerHandler) Entries(c *gin.Context) {
	q, ok := h.statementQuery(c)
	if !ok {
		return
	}

	statement, err := h.ledgerService.Statement(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger entries retrieved successfully", statement)
}

// Export handles the xlsx download of a statement
func (h *LedgerHandler) Export(c *gin.Context) {
	q, ok := h.statementQuery(c)
	if !ok {
		return
	}

	export, err := h.ledgerService.ExportStatement(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, export.Filename, xlsxContentType, export.Data)
}

// Pending handles the per-reference settlement view
func (h *LedgerHandler) Pending(c *gin.Context) {
	ledgerType, ok := ledgerTypeParam(c)
	if !ok {
		response.NotFound(c, "Ledger not found")
		return
	}

	var req request.PendingQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	view, err := h.ledgerService.PendingBalances(c.Request.Context(), service.PendingQuery{
		LedgerType:     ledgerType,
		CounterpartyID: strings.TrimSpace(req.EntityID),
		Status:         strings.ToLower(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pending balances retrieved successfully", view)
}

// Balances handles the closing balance of every counterparty
func (h *LedgerHandler) Balances(c *gin.Context) {
	ledgerType, ok := ledgerTypeParam(c)
	if !ok {
		response.NotFound(c, "Ledger not found")
		return
	}

	view, err := h.ledgerService.CounterpartyBalances(c.Request.Context(), ledgerType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balances retrieved successfully", view)
}

// RecordPayment handles recording a payment
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	ledgerType, ok := ledgerTypeParam(c)
	if !ok {
		response.NotFound(c, "Ledger not found")
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var fieldErrors []apperror.FieldError
	date := paymentDateField("date", req.Date, h.ledgerService.Location(), h.ledgerService.Now(), &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ValidationError(c, fieldErrors)
		return
	}

	entry, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		LedgerType:     ledgerType,
		CounterpartyID: strings.TrimSpace(req.EntityID),
		Amount:         req.Amount,
		Method:         parseMethod(req.Method),
		ReferenceID:    strings.TrimSpace(req.ReferenceID),
		ReferenceModel: enum.ReferenceModel(req.ReferenceModel),
		Date:           date,
		Description:    req.Description,
		RecordedBy:     recordedBy(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", entry)
}

// MarkAsPaid handles settling what remains on a reference
func (h *LedgerHandler) MarkAsPaid(c *gin.Context) {
	ledgerType, ok := ledgerTypeParam(c)
	if !ok {
		response.NotFound(c, "Ledger not found")
		return
	}

	var req request.MarkAsPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var fieldErrors []apperror.FieldError
	date := paymentDateField("date", req.Date, h.ledgerService.Location(), h.ledgerService.Now(), &fieldErrors)
	if len(fieldErrors) > 0 {
		response.ValidationError(c, fieldErrors)
		return
	}

	result, err := h.paymentService.MarkAsPaid(c.Request.Context(), &service.MarkAsPaidInput{
		LedgerType:     ledgerType,
		ReferenceID:    strings.TrimSpace(c.Param("reference_id")),
		CounterpartyID: strings.TrimSpace(req.EntityID),
		Method:         parseMethod(req.Method),
		Date:           date,
		RecordedBy:     recordedBy(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Reference marked as paid", result)
}

// statementQuery reads the path and query of the statement endpoints,
// answering the request itself when they are invalid
func (h *LedgerHandler) statementQuery(c *gin.Context) (service.StatementQuery, bool) {
	ledgerType, ok := ledgerTypeParam(c)
	if !ok {
		response.NotFound(c, "Ledger not found")
		return service.StatementQuery{}, false
	}

	var req request.StatementQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return service.StatementQuery{}, false
	}

	loc := h.ledgerService.Location()
	var fieldErrors []apperror.FieldError
	q := service.StatementQuery{
		LedgerType:     ledgerType,
		CounterpartyID: strings.TrimSpace(req.EntityID),
		DateFrom:       dateField("date_from", req.DateFrom, loc, &fieldErrors),
		DateTo:         dateField("date_to", req.DateTo, loc, &fieldErrors),
		Pagination:     paginationParams(c),
	}

	if req.Method != "" {
		q.Method = parseMethod(req.Method)
		if !q.Method.IsValid() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "method", Message: "method must be cash or bank"})
		}
	}
	if req.TransactionType != "" {
		q.TransactionType = enum.TransactionType(strings.ToLower(strings.TrimSpace(req.TransactionType)))
		if !q.TransactionType.IsValid() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "transaction_type", Message: "unknown transaction type"})
		}
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "date_to", Message: "date_to must not be before date_from"})
	}

	if len(fieldErrors) > 0 {
		response.ValidationError(c, fieldErrors)
		return service.StatementQuery{}, false
	}
	return q, true
}

func parseMethod(s string) enum.PaymentMethod {
	return enum.PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
}
