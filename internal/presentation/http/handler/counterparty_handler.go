package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/application/service"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/sangkips/tradebook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tradebook-api/internal/presentation/http/dto/response"
)

// CounterpartyHandler handles supplier, buyer and logistics company requests
type CounterpartyHandler struct {
	counterpartyService *service.CounterpartyService
}

// NewCounterpartyHandler creates a new counterparty handler
func NewCounterpartyHandler(counterpartyService *service.CounterpartyService) *CounterpartyHandler {
	return &CounterpartyHandler{counterpartyService: counterpartyService}
}

// List handles listing counterparties
func (h *CounterpartyHandler) List(c *gin.Context) {
	params := &repository.CounterpartyFilterParams{
		Pagination: paginationParams(c),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	if typ := c.Query("type"); typ != "" {
		ledgerType, ok := enum.ParseLedgerType(typ)
		if !ok {
			response.BadRequest(c, "Unknown counterparty type")
			return
		}
		params.Type = ledgerType
	}

	result, err := h.counterpartyService.ListCounterparties(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Counterparties retrieved successfully", result)
}

// Get handles getting a single counterparty
func (h *CounterpartyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid counterparty ID")
		return
	}

	counterparty, err := h.counterpartyService.GetCounterparty(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Counterparty retrieved successfully", counterparty)
}

// Create handles creating a counterparty
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req request.CreateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ledgerType, ok := enum.ParseLedgerType(strings.ToLower(strings.TrimSpace(req.Type)))
	if !ok {
		ledgerType = enum.LedgerType(req.Type)
	}

	counterparty, err := h.counterpartyService.CreateCounterparty(c.Request.Context(), &service.CreateCounterpartyInput{
		Type:          ledgerType,
		Name:          req.Name,
		Company:       req.Company,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		KRAPin:        req.KRAPin,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Counterparty created successfully", counterparty)
}
