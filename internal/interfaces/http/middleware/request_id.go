package middleware

import (
	"log/slog"
	"time"

	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID 请求 ID 头
const HeaderRequestID = "X-Request-ID"

// RequestID 为每个请求分配 ID，写入响应头与请求上下文
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// AccessLog 使用模块 logger 记录访问日志
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.FromContext(c.Request.Context(), logger).Debug("request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
