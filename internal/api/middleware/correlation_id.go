package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader 同时用于请求与响应，重新生成任务也沿用这一 ID。
const CorrelationIDHeader = "X-Correlation-ID"

const (
	correlationIDKey      = "correlationID"
	maxCorrelationIDBytes = 64
)

// CorrelationIDMiddleware 沿用调用方传入的 ID，缺失或不合法时重新生成。
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if !validCorrelationID(id) {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)

		c.Next()
	}
}

// GetCorrelationID 从上下文中取出 Correlation ID。
func GetCorrelationID(c *gin.Context) string {
	if value, ok := c.Get(correlationIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// validCorrelationID 只接受短的 [A-Za-z0-9._-] 串，避免外部输入污染日志与任务载荷。
func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDBytes {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.':
		default:
			return false
		}
	}
	return true
}
