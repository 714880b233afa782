package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader имя заголовка с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware проставляет идентификатор запроса, если клиент
// его не прислал, и возвращает его в ответе
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
