package handlers

import (
	"net/http"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/internal/service"
	"github.com/Dhoini/checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CustomerHandler обработчик для upsert клиентов
type CustomerHandler struct {
	service    service.CustomerService
	production bool
	log        *logger.Logger
}

// NewCustomerHandler создает новый обработчик клиентов
func NewCustomerHandler(svc service.CustomerService, production bool, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service:    svc,
		production: production,
		log:        log,
	}
}

// UpsertCustomer находит или создает клиента по email
func (h *CustomerHandler) UpsertCustomer(c *gin.Context) {
	var req domain.UpsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid customer upsert request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, h.production, h.log)
		return
	}

	h.log.Info("Upserted customer with ID: %s", customer.ID)
	c.JSON(http.StatusOK, domain.UpsertCustomerResponse{
		CustomerID: customer.ID,
		Email:      customer.Email,
	})
}
