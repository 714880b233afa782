package handlers

import (
	"errors"
	"net/http"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// errorBody представляет формат JSON-ответа для ошибок
type errorBody struct {
	Success              bool   `json:"success"`
	Error                string `json:"error"`
	SubscriptionID       string `json:"subscription_id,omitempty"`
	RequiresVerification bool   `json:"requires_verification,omitempty"`
	// Debug заполняется только вне production, чтобы не течь деталями наружу
	Debug string `json:"debug,omitempty"`
}

// writeError отображает ошибку таксономии сервиса на HTTP ответ.
// Сообщения провайдерских ошибок обработки наружу не уходят в production.
func writeError(c *gin.Context, err error, production bool, log *logger.Logger) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, errorBody{Error: verrs.Error()})
		return
	}

	var verification *domain.VerificationRequiredError
	if errors.As(err, &verification) {
		c.JSON(http.StatusForbidden, errorBody{
			Error:                "additional verification required",
			RequiresVerification: true,
		})
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, errorBody{
			Error:          conflict.Error(),
			SubscriptionID: conflict.SubscriptionID,
		})
		return
	}

	var provider *domain.ProviderError
	if errors.As(err, &provider) {
		if provider.Kind == domain.ProviderErrorInvalidInput {
			// Сообщение провайдера о неверных данных можно показать как есть
			c.JSON(http.StatusBadRequest, errorBody{Error: provider.Message})
			return
		}
		body := errorBody{Error: "payment processing error"}
		if !production {
			body.Debug = provider.Error()
		}
		log.Error("Provider processing error: %v", err)
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	body := errorBody{Error: "internal server error"}
	if !production {
		body.Debug = err.Error()
	}
	log.Error("Unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, body)
}
