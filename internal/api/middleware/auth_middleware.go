package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/auth"
)

// 受保护的页面前缀与对应的 API 前缀。
const (
	DashboardPagePrefix = "/dashboard"
	DashboardAPIPrefix  = "/api/dashboard"
	LoginPath           = "/login"
)

const sessionClaimsKey = "sessionClaims"

// SessionResolver 根据 Cookie 中的令牌解析会话。
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*auth.SessionClaims, error)
}

// GateOptions 配置鉴权拦截器。Bypass 为 true 时放行所有请求（测试模式）。
type GateOptions struct {
	CookieName string
	Bypass     bool
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// matchesPrefix 按路径段匹配，/dashboard 命中 /dashboard 与 /dashboard/x，不命中 /dashboards。
func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// DashboardGate 拦截后台页面与后台 API：
// 无会话时 API 返回 401，页面重定向到登录页并携带原路径；其余路径直接放行。
func DashboardGate(resolver SessionResolver, opts GateOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		isAPI := matchesPrefix(path, DashboardAPIPrefix)
		isPage := matchesPrefix(path, DashboardPagePrefix)
		if !isAPI && !isPage {
			c.Next()
			return
		}
		if opts.Bypass {
			c.Next()
			return
		}

		claims, ok := resolveFromCookie(c, resolver, opts.CookieName)
		if !ok {
			if isAPI {
				abortUnauthorized(c)
				return
			}
			target := LoginPath + "?" + url.Values{"redirect": {path}}.Encode()
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}

		c.Set(sessionClaimsKey, claims)
		c.Next()
	}
}

// ResolveSession 在未经过拦截器的路由上解析会话，结果缓存到上下文。
func ResolveSession(c *gin.Context, resolver SessionResolver, cookieName string) (*auth.SessionClaims, bool) {
	if claims, ok := SessionFromContext(c); ok {
		return claims, true
	}
	claims, ok := resolveFromCookie(c, resolver, cookieName)
	if ok {
		c.Set(sessionClaimsKey, claims)
	}
	return claims, ok
}

// SessionFromContext 返回拦截器写入的会话。
func SessionFromContext(c *gin.Context) (*auth.SessionClaims, bool) {
	value, ok := c.Get(sessionClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.SessionClaims)
	return claims, ok && claims != nil
}

func resolveFromCookie(c *gin.Context, resolver SessionResolver, cookieName string) (*auth.SessionClaims, bool) {
	if resolver == nil {
		return nil, false
	}
	token, err := c.Cookie(cookieName)
	if err != nil || strings.TrimSpace(token) == "" {
		return nil, false
	}
	claims, err := resolver.ResolveSession(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			LoggerFromContext(c).Error("resolve session failed", slog.Any("error", err))
		}
		return nil, false
	}
	return claims, true
}
