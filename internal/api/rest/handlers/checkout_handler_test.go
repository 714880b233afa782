package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckoutService struct {
	resp *domain.CreateIntentResponse
	err  error
}

func (s *stubCheckoutService) CreateIntent(ctx context.Context, req domain.CreateIntentRequest) (*domain.CreateIntentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func newCheckoutRouter(t *testing.T, svc *stubCheckoutService, production bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.ERROR)
	router := gin.New()
	router.POST("/api/v1/subscriptions/intent", NewCheckoutHandler(svc, production, log).CreateIntent)
	return router
}

func postIntent(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/intent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateIntentReturnsResponse(t *testing.T) {
	svc := &stubCheckoutService{resp: &domain.CreateIntentResponse{
		Success:       true,
		ClientSecret:  "pi_secret",
		CustomerID:    "cus_123",
		IsPreauth:     true,
		PreauthAmount: domain.PreauthAmount,
	}}
	router := newCheckoutRouter(t, svc, false)

	rec := postIntent(t, router, `{"amount":9900,"subscription_type":"monthly","price_id":"price_m","customer_id":"cus_123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pi_secret", body["client_secret"])
	assert.Equal(t, true, body["is_preauth"])
	// Ключ присутствует всегда, null когда подписки нет
	_, ok := body["subscription_id"]
	assert.True(t, ok)
	assert.Nil(t, body["subscription_id"])
}

func TestCreateIntentMalformedJSON(t *testing.T) {
	router := newCheckoutRouter(t, &stubCheckoutService{}, false)

	rec := postIntent(t, router, `{"amount":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateIntentConflictMapsTo409(t *testing.T) {
	svc := &stubCheckoutService{err: domain.NewConflictError("sub_active", domain.SubscriptionStateActive)}
	router := newCheckoutRouter(t, svc, false)

	rec := postIntent(t, router, `{"amount":9900,"subscription_type":"monthly","price_id":"price_m","customer_id":"cus_123"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sub_active", body["subscription_id"])
	assert.Contains(t, body["error"], "active subscription")
}

func TestCreateIntentVerificationRequiredMapsTo403(t *testing.T) {
	svc := &stubCheckoutService{err: &domain.VerificationRequiredError{Assessment: domain.RiskAssessment{
		RiskTier:             domain.RiskTierHigh,
		Reason:               "name does not match phone number",
		RequiresVerification: true,
	}}}
	router := newCheckoutRouter(t, svc, false)

	rec := postIntent(t, router, `{"amount":9900,"subscription_type":"monthly","price_id":"price_m","customer_id":"cus_123"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["requires_verification"])
}

func TestCreateIntentProviderInvalidInputMapsTo400(t *testing.T) {
	svc := &stubCheckoutService{err: domain.NewProviderError(
		domain.ProviderErrorInvalidInput, "parameter_invalid_integer", "Invalid integer: -100", nil,
	)}
	router := newCheckoutRouter(t, svc, false)

	rec := postIntent(t, router, `{"amount":9900,"subscription_type":"monthly","price_id":"price_m","customer_id":"cus_123"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid integer: -100", body["error"])
}

func TestCreateIntentProcessingErrorHidesDetailsInProduction(t *testing.T) {
	provErr := domain.NewProviderError(domain.ProviderErrorProcessing, "api_error", "stripe exploded", nil)

	rec := postIntent(t, newCheckoutRouter(t, &stubCheckoutService{err: provErr}, true),
		`{"amount":9900,"subscription_type":"monthly","price_id":"price_m","customer_id":"cus_123"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "payment processing error", body["error"])
	_, hasDebug := body["debug"]
	assert.False(t, hasDebug)

	// Вне production детали попадают в debug
	rec = postIntent(t, newCheckoutRouter(t, &stubCheckoutService{err: provErr}, false),
		`{"amount":9900,"subscription_type":"monthly","price_id":"price_m","customer_id":"cus_123"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body = map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["debug"], "stripe exploded")
}

func TestCreateIntentValidationErrorsMapTo400(t *testing.T) {
	var verrs domain.ValidationErrors
	verrs.Add("customer_id", "either customer_id or email is required")
	router := newCheckoutRouter(t, &stubCheckoutService{err: verrs}, false)

	rec := postIntent(t, router, `{"amount":9900,"subscription_type":"monthly","price_id":"price_m"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
