package api

import (
	"errors"
	"log/slog"
	"net/http"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/auth"
	"portfolio/internal/repository"
)

// AuthHandler 处理后台登录、退出与会话查询。
type AuthHandler struct {
	users        *repository.AdminUserRepository
	authService  *auth.AuthService
	guard        *auth.LoginGuard
	cookieName   string
	cookieDomain string
}

// NewAuthHandler 构造认证处理器。
func NewAuthHandler(users *repository.AdminUserRepository, authService *auth.AuthService, guard *auth.LoginGuard, cookieName, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		users:        users,
		authService:  authService,
		guard:        guard,
		cookieName:   cookieName,
		cookieDomain: cookieDomain,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type sessionResponse struct {
	User      sessionUser `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func newSessionResponse(claims *auth.SessionClaims) sessionResponse {
	resp := sessionResponse{User: sessionUser{ID: claims.UserID, Username: claims.Username}}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return resp
}

// Login 校验口令并写入会话 Cookie。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(
		slog.String("username", req.Username),
	)

	if err := h.guard.Allow(ctx, c.ClientIP(), req.Username); err != nil {
		switch {
		case errors.Is(err, auth.ErrRateLimited):
			logger.Info("login rejected: rate limited")
		case errors.Is(err, auth.ErrLocked):
			logger.Info("login rejected: account locked")
		}
		TooManyRequests(c, err.Error())
		return
	}

	user, err := h.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("login failed: user not found")
			auth.CheckPasswordHash(req.Password, "")
			h.recordFailure(c, req.Username)
			Unauthorized(c)
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "internal error", nil)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		h.recordFailure(c, req.Username)
		Unauthorized(c)
		return
	}

	// 登录成功：清理失败计数
	if err := h.guard.Reset(ctx, req.Username); err != nil {
		logger.Warn("reset login failures failed", slog.Any("error", err))
	}

	token, claims, err := h.authService.IssueSession(user.ID, user.Username)
	if err != nil {
		logger.Error("issue session failed", slog.Any("error", err))
		Internal(c, "internal error", nil)
		return
	}

	h.setSessionCookie(c, token)
	logger.Info("admin logged in", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusOK, newSessionResponse(claims))
}

// Logout 注销当前会话并清除 Cookie；没有有效会话时同样返回成功。
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	if claims, ok := middleware.ResolveSession(c, h.authService, h.cookieName); ok {
		if err := h.authService.RevokeSession(c.Request.Context(), claims); err != nil {
			logger.Error("logout revoke session failed", slog.Any("error", err))
			Internal(c, "internal error", nil)
			return
		}
		logger.Info("admin logged out", slog.Uint64("user_id", uint64(claims.UserID)))
	}

	// 清除 Cookie。
	stdhttp.SetCookie(c.Writer, &stdhttp.Cookie{
		Name:     h.cookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Session 返回当前登录的管理员。
func (h *AuthHandler) Session(c *gin.Context) {
	claims, ok := middleware.ResolveSession(c, h.authService, h.cookieName)
	if !ok {
		Unauthorized(c)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(claims))
}

// LoginPage 是未登录访问后台页面时的落地点，回显登录后应返回的路径。
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"login":    "/api/auth/login",
		"redirect": safeRedirect(c.Query("redirect")),
	})
}

// safeRedirect 只接受站内路径，其余一律回到后台首页。
func safeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return middleware.DashboardPagePrefix
	}
	return target
}

func (h *AuthHandler) recordFailure(c *gin.Context, username string) {
	if err := h.guard.RecordFailure(c.Request.Context(), username); err != nil {
		middleware.LoggerFromContext(c).Warn("record login failure failed", slog.Any("error", err))
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	ttl := h.authService.SessionTTL()
	maxAge := int(ttl.Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	cookie := &stdhttp.Cookie{
		Name:     h.cookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
		Expires:  time.Now().Add(ttl),
	}
	stdhttp.SetCookie(c.Writer, cookie)
}

func (h *AuthHandler) isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}

func (h *AuthHandler) getCookieDomain() string { return strings.TrimSpace(h.cookieDomain) }
