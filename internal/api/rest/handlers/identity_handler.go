package handlers

import (
	"net/http"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/internal/service"
	"github.com/Dhoini/checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// IdentityHandler обработчик проверки телефона/личности
type IdentityHandler struct {
	service service.RiskService
	log     *logger.Logger
}

// NewIdentityHandler создает новый обработчик проверки личности
func NewIdentityHandler(svc service.RiskService, log *logger.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: svc,
		log:     log,
	}
}

// CheckIdentity оценивает риск по телефону и опциональным именам.
// Недоступность внешних сервисов проверки никогда не дает 5xx:
// цепочка fail-open деградирует до базового вердикта.
func (h *IdentityHandler) CheckIdentity(c *gin.Context) {
	var req domain.RiskCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid identity check request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assessment := h.service.Assess(c.Request.Context(), req)
	c.JSON(http.StatusOK, assessment)
}
