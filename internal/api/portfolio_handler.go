package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/portfolio"
)

// PortfolioHandler 输出公开页面使用的聚合视图及页面元数据。
type PortfolioHandler struct {
	service *portfolio.Service
}

func NewPortfolioHandler(service *portfolio.Service) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// Get 返回聚合视图；库中没有个人信息时按渲染失败处理（500），不返回残缺数据。
func (h *PortfolioHandler) Get(c *gin.Context) {
	view, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PortfolioHandler) Metadata(c *gin.Context) {
	view, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, portfolio.BuildMetadata(view))
}

func (h *PortfolioHandler) load(c *gin.Context) (*portfolio.Portfolio, bool) {
	view, err := h.service.Load(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("load portfolio failed", slog.Any("error", err))
		Internal(c, "Failed to load portfolio", err)
		return nil, false
	}
	return view, true
}
