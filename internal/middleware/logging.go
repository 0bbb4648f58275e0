package middleware

import (
	"time"

	"pinecone-be/internal/logger"
	"pinecone-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger assigns each request an id, threads it through the context
// for downstream log correlation and logs the request on completion.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(
			logger.WithRequestID(c.Request.Context(), requestID),
		)
		c.Header("X-Request-ID", requestID)

		c.Next()

		userID, _ := utils.GetUserIDFromContext(c.Request.Context())
		logger.L().Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_ip", c.ClientIP()),
			zap.Int("user_id", userID),
		)
	}
}
