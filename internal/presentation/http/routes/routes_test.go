package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/application/service"
	"github.com/sangkips/tradebook-api/internal/config"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/sangkips/tradebook-api/internal/infrastructure/cache"
	"github.com/sangkips/tradebook-api/internal/infrastructure/events"
	infraRepo "github.com/sangkips/tradebook-api/internal/infrastructure/repository"
	"github.com/sangkips/tradebook-api/internal/infrastructure/store/memory"
	"github.com/sangkips/tradebook-api/internal/presentation/http/handler"
	"github.com/sangkips/tradebook-api/internal/presentation/http/middleware"
	"github.com/sangkips/tradebook-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type app struct {
	router   *gin.Engine
	jwt      *utils.JWTManager
	store    *memory.Store
	tenantID uuid.UUID
	supplier *entity.Counterparty
}

func newApp(t *testing.T, limiter *middleware.TenantRateLimiter) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	tenantID := uuid.New()
	supplier := &entity.Counterparty{Type: enum.LedgerTypeSupplier, Name: "Acme"}
	require.NoError(t, store.Counterparties().Create(infraRepo.WithTenant(context.Background(), tenantID), supplier))

	log := zap.NewNop()
	ledgers := service.NewLedgerService(store, store.Counterparties(), cache.Noop{}, log, service.LedgerOptions{})
	payments := service.NewPaymentService(store, store.Counterparties(), ledgers, cache.Noop{}, events.Noop{}, log)

	jwtManager := utils.NewJWTManager("test-secret", "tradebook-accounts", time.Hour)
	router := Setup(&Handlers{
		Health:       handler.NewHealthHandler("tradebook-api", nil),
		Ledger:       handler.NewLedgerHandler(ledgers, payments),
		Counterparty: handler.NewCounterpartyHandler(service.NewCounterpartyService(store.Counterparties())),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             &config.Config{},
		IdempotencyRepo: store.IdempotencyKeys(),
		RateLimiter:     limiter,
		Log:             log,
	})

	return &app{router: router, jwt: jwtManager, store: store, tenantID: tenantID, supplier: supplier}
}

func (a *app) token(t *testing.T, permissions ...string) string {
	t.Helper()
	token, err := a.jwt.GenerateAccessToken(uuid.New(), a.tenantID, "clerk@example.com", []string{"accountant"}, permissions)
	require.NoError(t, err)
	return token
}

func (a *app) request(method, path, token, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	a := newApp(t, nil)

	w := a.request(http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthAndPermissions(t *testing.T) {
	a := newApp(t, nil)
	path := "/api/v1/ledgers/supplier/entries"

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "missing token", token: "", status: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", status: http.StatusUnauthorized},
		{name: "without permission", token: a.token(t), status: http.StatusForbidden},
		{name: "with permission", token: a.token(t, PermissionViewLedgers), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.request(http.MethodGet, path, tt.token, "", nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := a.request(http.MethodPost, "/api/v1/ledgers/supplier/payments", a.token(t, PermissionViewLedgers), `{}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPaymentReplayedForSameIdempotencyKey(t *testing.T) {
	a := newApp(t, nil)
	token := a.token(t, PermissionViewLedgers, PermissionManageLedgers)
	body := `{"entity_id":"` + a.supplier.ID.String() + `","amount":75,"method":"cash"}`
	headers := map[string]string{middleware.IdempotencyKeyHeader: "pay-001"}

	first := a.request(http.MethodPost, "/api/v1/ledgers/supplier/payments", token, body, headers)
	require.Equal(t, http.StatusCreated, first.Code)

	second := a.request(http.MethodPost, "/api/v1/ledgers/supplier/payments", token, body, headers)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	other := a.request(http.MethodPost, "/api/v1/ledgers/supplier/payments", token,
		`{"entity_id":"`+a.supplier.ID.String()+`","amount":80,"method":"cash"}`, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, other.Code)

	entries, err := a.store.FetchEntries(infraRepo.WithTenant(context.Background(), a.tenantID), repository.EntryFilter{LedgerType: enum.LedgerTypeSupplier})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFailedPaymentIsNotReplayed(t *testing.T) {
	a := newApp(t, nil)
	token := a.token(t, PermissionManageLedgers)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "pay-002"}

	w := a.request(http.MethodPost, "/api/v1/ledgers/supplier/payments", token,
		`{"entity_id":"`+a.supplier.ID.String()+`","amount":0,"method":"cash"}`, headers)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.request(http.MethodPost, "/api/v1/ledgers/supplier/payments", token,
		`{"entity_id":"`+a.supplier.ID.String()+`","amount":0,"method":"cash"}`, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
}

func TestRateLimitPerTenant(t *testing.T) {
	limiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	a := newApp(t, limiter)
	token := a.token(t, PermissionViewLedgers)

	for i := 0; i < 2; i++ {
		w := a.request(http.MethodGet, "/api/v1/ledgers/supplier/balances", token, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := a.request(http.MethodGet, "/api/v1/ledgers/supplier/balances", token, "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// another tenant has its own bucket
	otherToken, err := a.jwt.GenerateAccessToken(uuid.New(), uuid.New(), "other@example.com", nil, []string{PermissionViewLedgers})
	require.NoError(t, err)
	w = a.request(http.MethodGet, "/api/v1/ledgers/supplier/balances", otherToken, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, limiter.ActiveTenants())
}
