package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/pkg/apperror"
	"github.com/sangkips/tradebook-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// recordedBy is the caller's user id, or uuid.Nil when unauthenticated
func recordedBy(c *gin.Context) uuid.UUID {
	if id := GetUserID(c); id != nil {
		return *id
	}
	return uuid.Nil
}

// ledgerTypeParam reads the :ledger_type path segment
func ledgerTypeParam(c *gin.Context) (enum.LedgerType, bool) {
	return enum.ParseLedgerType(c.Param("ledger_type"))
}

// parseDate accepts a calendar day in loc or an RFC 3339 timestamp.
// An empty value yields nil.
func parseDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateField parses a date and records a field error when it is malformed
func dateField(field, value string, loc *time.Location, errs *[]apperror.FieldError) *time.Time {
	t, err := parseDate(value, loc)
	if err != nil {
		*errs = append(*errs, apperror.FieldError{Field: field, Message: "must be YYYY-MM-DD or an RFC 3339 timestamp"})
		return nil
	}
	return t
}

// paymentDateField parses the date of a payment being recorded. A calendar day
// takes the current time of day in loc, so a payment dated today sorts after
// entries posted earlier that day.
func paymentDateField(field, value string, loc *time.Location, now time.Time, errs *[]apperror.FieldError) *time.Time {
	day, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return dateField(field, value, loc, errs)
	}
	now = now.In(loc)
	t := time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), loc)
	return &t
}

// paginationParams reads page and per_page from the query string
func paginationParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	p := &pagination.PaginationParams{Page: page, PerPage: perPage}
	p.Validate()
	return p
}
