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

type stubCustomerService struct {
	customer *domain.Customer
	err      error
	calls    int
}

func (s *stubCustomerService) Upsert(ctx context.Context, req domain.UpsertCustomerRequest) (*domain.Customer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.customer, nil
}

type stubRiskService struct {
	assessment domain.RiskAssessment
}

func (s *stubRiskService) Assess(ctx context.Context, req domain.RiskCheckRequest) domain.RiskAssessment {
	return s.assessment
}

func TestUpsertCustomerReturnsIDAndEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubCustomerService{customer: &domain.Customer{ID: "cus_123", Email: "a@b.com"}}
	router := gin.New()
	router.POST("/api/v1/customers", NewCustomerHandler(svc, false, logger.New(logger.ERROR)).UpsertCustomer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewBufferString(`{"email":"a@b.com","name":"A B"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cus_123", body["customerId"])
	assert.Equal(t, "a@b.com", body["email"])
}

func TestUpsertCustomerRejectsMissingEmailBeforeService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubCustomerService{}
	router := gin.New()
	router.POST("/api/v1/customers", NewCustomerHandler(svc, false, logger.New(logger.ERROR)).UpsertCustomer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewBufferString(`{"name":"A B"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestCheckIdentityNever5xxOnDegradedVerdict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// Вердикт после отказа всех внешних сервисов - обычный 200
	svc := &stubRiskService{assessment: domain.RiskAssessment{
		IsValid:          true,
		RiskTier:         domain.RiskTierUnknown,
		ValidationMethod: domain.ValidationMethodBasicFallback,
	}}
	router := gin.New()
	router.POST("/api/v1/identity/check", NewIdentityHandler(svc, logger.New(logger.ERROR)).CheckIdentity)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/check", bytes.NewBufferString(`{"phone":"8016237654"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["isValid"])
	assert.Equal(t, "unknown", body["riskTier"])
	assert.Equal(t, "basic_fallback", body["validationMethod"])
}

func TestCheckIdentityRequiresPhone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/identity/check", NewIdentityHandler(&stubRiskService{}, logger.New(logger.ERROR)).CheckIdentity)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/check", bytes.NewBufferString(`{"firstName":"John"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}
