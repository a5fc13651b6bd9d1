package service

import (
	"errors"

	"github.com/sangkips/tradebook-api/internal/domain/ledger"
	infraRepo "github.com/sangkips/tradebook-api/internal/infrastructure/repository"
	"github.com/sangkips/tradebook-api/pkg/apperror"
)

var errTenantRequired = apperror.NewBadRequestError("Tenant context required")

// fromValidation converts a core validation failure into the 422 response shape
func fromValidation(verr *ledger.ValidationError) *apperror.AppError {
	return apperror.NewValidationError([]apperror.FieldError{
		{Field: verr.Field, Message: verr.Message},
	})
}

// storeError classifies a failure returned by a store call. Validation
// failures raised by the store keep their 422; anything else is upstream.
func storeError(op string, err error) error {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return fromValidation(verr)
	}
	if errors.Is(err, infraRepo.ErrNoTenant) {
		return errTenantRequired
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewUpstreamError(op, err)
}
