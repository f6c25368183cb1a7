package api

import (
	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
)

// sessionGuard 供需要在处理器内部确认登录态的接口使用。
// bypass 对应测试模式，开启后不做检查。
type sessionGuard struct {
	resolver   middleware.SessionResolver
	cookieName string
	bypass     bool
}

// require 无会话时写入 401 并返回 false。
func (g sessionGuard) require(c *gin.Context) bool {
	if g.bypass {
		return true
	}
	if g.resolver == nil {
		Unauthorized(c)
		return false
	}
	if _, ok := middleware.ResolveSession(c, g.resolver, g.cookieName); !ok {
		Unauthorized(c)
		return false
	}
	return true
}
