package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio/internal/api/middleware"
	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/metrics"
	"portfolio/internal/storage"
	"portfolio/internal/tasks"
)

// Dependencies 汇总路由需要的外部资源，由 cmd/api 构造后注入。
// Storage 为 nil 表示未配置对象存储；Scanner 为 nil 表示不做病毒扫描。
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Logger      *slog.Logger
	AuthService *auth.AuthService
	LoginGuard  *auth.LoginGuard
	Dispatcher  tasks.Dispatcher
	Storage     ResumeStorage
	Scanner     storage.Scanner
}

// NewRouter 构建 Gin 路由引擎：恢复、Correlation ID、请求日志、指标与后台鉴权拦截。
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var resolver middleware.SessionResolver
	if deps.AuthService != nil {
		resolver = deps.AuthService
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		middleware.DashboardGate(resolver, middleware.GateOptions{
			CookieName: deps.Config.Auth.CookieName,
			Bypass:     deps.Config.TestMode(),
		}),
	)

	RegisterRoutes(router, deps)
	return router
}
