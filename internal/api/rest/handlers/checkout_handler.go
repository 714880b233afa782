package handlers

import (
	"net/http"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/internal/service"
	"github.com/Dhoini/checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler обработчик создания платежного интента подписки
type CheckoutHandler struct {
	service    service.CheckoutService
	production bool
	log        *logger.Logger
}

// NewCheckoutHandler создает новый обработчик checkout
func NewCheckoutHandler(svc service.CheckoutService, production bool, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:    svc,
		production: production,
		log:        log,
	}
}

// CreateIntent проводит checkout и возвращает client secret интента
func (h *CheckoutHandler) CreateIntent(c *gin.Context) {
	var req domain.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid intent request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.service.CreateIntent(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, h.production, h.log)
		return
	}

	c.JSON(http.StatusOK, resp)
}
