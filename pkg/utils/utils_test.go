package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "tradebook-api", time.Hour)
	userID, tenantID := uuid.New(), uuid.New()

	token, err := m.GenerateAccessToken(userID, tenantID, "ops@example.com", []string{"accountant"}, []string{"ledger:write"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, []string{"ledger:write"}, claims.Permissions)

	other := NewJWTManager("other", "tradebook-api", time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessTokenRequiresTenant(t *testing.T) {
	m := NewJWTManager("secret", "tradebook-api", time.Hour)
	token, err := m.GenerateAccessToken(uuid.New(), uuid.Nil, "", nil, nil)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestParseUUIDs(t *testing.T) {
	a := uuid.New()
	got := ParseUUIDs([]string{a.String(), "not-a-uuid", a.String(), ""})
	assert.Equal(t, []uuid.UUID{a}, got)
}
