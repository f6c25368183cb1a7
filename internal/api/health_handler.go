package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio/internal/api/middleware"
	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// HealthHandler 提供存活检查与数据库连通性检查。
type HealthHandler struct {
	db           *gorm.DB
	personalInfo *repository.PersonalInfoRepository
}

func NewHealthHandler(db *gorm.DB, personalInfo *repository.PersonalInfoRepository) *HealthHandler {
	return &HealthHandler{db: db, personalInfo: personalInfo}
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Database 先 ping 连接池，再读取个人信息作为探针；没有记录时 data 为 null。
func (h *HealthHandler) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	fail := func(err error) {
		middleware.LoggerFromContext(c).Error("database health check failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database connection failed",
			"error":   err.Error(),
		})
	}

	if err := database.Ping(ctx, h.db); err != nil {
		fail(err)
		return
	}
	info, err := h.personalInfo.First(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		fail(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connection successful",
		"data":    info,
	})
}
