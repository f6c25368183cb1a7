package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/internal/portfolio"
	"portfolio/internal/repository"
	"portfolio/internal/tasks"
)

// crudHandler 是后台实体的统一路由形态。
type crudHandler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	UpdateByID(c *gin.Context)
	DeleteByID(c *gin.Context)
}

// registerCRUD 同时注册集合形式（PUT 体内带 id，DELETE 使用 ?id=）与按 id 的形式（GET/PUT/DELETE /:id）。
func registerCRUD(group *gin.RouterGroup, path string, h crudHandler) {
	g := group.Group(path)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("", h.Update)
	g.DELETE("", h.Delete)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.UpdateByID)
	g.DELETE("/:id", h.DeleteByID)
}

// RegisterRoutes 注册全部路由。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	repos := repository.NewSet(deps.DB)

	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = tasks.NoopDispatcher{}
	}
	notifier := changeNotifier{dispatcher: dispatcher}
	session := sessionGuard{
		cookieName: deps.Config.Auth.CookieName,
		bypass:     deps.Config.TestMode(),
	}
	if deps.AuthService != nil {
		session.resolver = deps.AuthService
	}

	healthHandler := NewHealthHandler(deps.DB, repos.PersonalInfo)
	portfolioHandler := NewPortfolioHandler(portfolio.NewService(deps.DB))
	contactHandler := NewContactHandler(repos.Messages)
	resumeHandler := NewResumeHandler(deps.Storage, deps.Scanner, deps.Config.Resume, session)
	authHandler := NewAuthHandler(repos.AdminUsers, deps.AuthService, deps.LoginGuard, deps.Config.Auth.CookieName, deps.Config.Auth.CookieDomain)
	dashboardHandler := NewDashboardHandler(deps.DB, repos, notifier)
	projectHandler := NewProjectHandler(repos.Projects, session, notifier)
	personalInfoHandler := NewPersonalInfoHandler(repos.PersonalInfo, notifier)

	router.GET("/health", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/login", authHandler.LoginPage)
	router.GET("/dashboard", dashboardHandler.Overview)

	api := router.Group("/api")
	{
		api.GET("/health/db", healthHandler.Database)
		api.GET("/portfolio", portfolioHandler.Get)
		api.GET("/portfolio/metadata", portfolioHandler.Metadata)
		api.GET("/projects/:slug", projectHandler.GetBySlug)
		api.POST("/contact", contactHandler.Submit)
		api.GET("/resume", resumeHandler.Get)
		api.PUT("/resume", resumeHandler.Put)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/session", authHandler.Session)
		}

		dashboard := api.Group("/dashboard")
		{
			registerCRUD(dashboard, "/skills", NewSkillHandler(repos.Skills, notifier))
			registerCRUD(dashboard, "/work-experience", NewWorkExperienceHandler(repos.WorkExperience, notifier))
			registerCRUD(dashboard, "/education", NewEducationHandler(repos.Education, notifier))
			registerCRUD(dashboard, "/languages", NewLanguageHandler(repos.Languages, notifier))
			registerCRUD(dashboard, "/hackathons", NewHackathonHandler(repos.Hackathons, notifier))
			registerCRUD(dashboard, "/projects", projectHandler)

			dashboard.GET("/personal-info", personalInfoHandler.Get)
			dashboard.PUT("/personal-info", personalInfoHandler.Put)
			dashboard.GET("/messages", dashboardHandler.Messages)
			dashboard.GET("/content", dashboardHandler.Content)
			dashboard.POST("/maintenance/normalize", dashboardHandler.Normalize)
		}
	}
}
