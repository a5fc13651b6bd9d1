package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/sangkips/tradebook-api/pkg/apperror"
	"github.com/sangkips/tradebook-api/pkg/pagination"
)

// CounterpartyService handles supplier, buyer and logistics company records
type CounterpartyService struct {
	counterpartyRepo repository.CounterpartyRepository
}

// NewCounterpartyService creates a new counterparty service
func NewCounterpartyService(counterpartyRepo repository.CounterpartyRepository) *CounterpartyService {
	return &CounterpartyService{counterpartyRepo: counterpartyRepo}
}

// CreateCounterpartyInput represents the create counterparty input
type CreateCounterpartyInput struct {
	Type          enum.LedgerType
	Name          string
	Company       *string
	Email         *string
	Phone         *string
	Address       *string
	KRAPin        *string
	AccountHolder *string
	AccountNumber *string
	BankName      *string
}

// CreateCounterparty creates a new counterparty
func (s *CounterpartyService) CreateCounterparty(ctx context.Context, input *CreateCounterpartyInput) (*entity.Counterparty, error) {
	var fieldErrors []apperror.FieldError
	if !input.Type.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "type", Message: "type must be supplier, buyer or logistics"})
	}
	name := strings.TrimSpace(input.Name)
	if name == "" && (input.Company == nil || strings.TrimSpace(*input.Company) == "") {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name or company is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	counterparty := &entity.Counterparty{
		Type:          input.Type,
		Name:          name,
		Company:       input.Company,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		KRAPin:        input.KRAPin,
		AccountHolder: input.AccountHolder,
		AccountNumber: input.AccountNumber,
		BankName:      input.BankName,
	}

	if err := s.counterpartyRepo.Create(ctx, counterparty); err != nil {
		return nil, storeError("create counterparty", err)
	}
	return counterparty, nil
}

// GetCounterparty retrieves a counterparty by ID
func (s *CounterpartyService) GetCounterparty(ctx context.Context, id uuid.UUID) (*entity.Counterparty, error) {
	counterparty, err := s.counterpartyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("load counterparty", err)
	}
	if counterparty == nil {
		return nil, apperror.NewNotFoundError("Counterparty")
	}
	return counterparty, nil
}

// ListCounterparties lists counterparties, optionally of one type
func (s *CounterpartyService) ListCounterparties(ctx context.Context, params *repository.CounterpartyFilterParams) (*pagination.PaginatedResult[entity.Counterparty], error) {
	if params.Type != "" && !params.Type.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown counterparty type")
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	counterparties, total, err := s.counterpartyRepo.List(ctx, params)
	if err != nil {
		return nil, storeError("list counterparties", err)
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(counterparties, pag), nil
}
