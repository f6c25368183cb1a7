package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio/internal/api/middleware"
	"portfolio/internal/repository"
)

// DashboardHandler 提供后台首页统计、留言列表、全表导出与历史数据修复。
type DashboardHandler struct {
	db    *gorm.DB
	repos *repository.Set
	changeNotifier
}

func NewDashboardHandler(db *gorm.DB, repos *repository.Set, notifier changeNotifier) *DashboardHandler {
	return &DashboardHandler{db: db, repos: repos, changeNotifier: notifier}
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// Overview 返回各实体的记录数。
func (h *DashboardHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	sources := []struct {
		name string
		repo counter
	}{
		{"skills", h.repos.Skills},
		{"workExperience", h.repos.WorkExperience},
		{"education", h.repos.Education},
		{"projects", h.repos.Projects},
		{"hackathons", h.repos.Hackathons},
		{"languages", h.repos.Languages},
		{"messages", h.repos.Messages},
	}

	counts := make(gin.H, len(sources))
	for _, src := range sources {
		n, err := src.repo.Count(ctx)
		if err != nil {
			respondStoreError(c, err, "", "Failed to load dashboard")
			return
		}
		counts[src.name] = n
	}

	session, _ := middleware.SessionFromContext(c)
	var username string
	if session != nil {
		username = session.Username
	}
	c.JSON(http.StatusOK, gin.H{"user": username, "counts": counts})
}

func (h *DashboardHandler) Messages(c *gin.Context) {
	messages, err := h.repos.Messages.ListNewestFirst(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "", "Failed to fetch messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Content 导出全部表的原始数据，列值不做规范化。
func (h *DashboardHandler) Content(c *gin.Context) {
	ctx := c.Request.Context()
	fail := func(err error) {
		middleware.LoggerFromContext(c).Error("fetch database content failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch database content",
			"error":   err.Error(),
		})
	}

	personalInfo, err := h.repos.PersonalInfo.ListAll(ctx)
	if err != nil {
		fail(err)
		return
	}
	skills, err := h.repos.Skills.ListAll(ctx)
	if err != nil {
		fail(err)
		return
	}
	projects, err := h.repos.Projects.ListAll(ctx)
	if err != nil {
		fail(err)
		return
	}
	workExperience, err := h.repos.WorkExperience.ListAll(ctx)
	if err != nil {
		fail(err)
		return
	}
	education, err := h.repos.Education.ListAll(ctx)
	if err != nil {
		fail(err)
		return
	}
	languages, err := h.repos.Languages.ListAll(ctx)
	if err != nil {
		fail(err)
		return
	}
	hackathons, err := h.repos.Hackathons.ListAll(ctx)
	if err != nil {
		fail(err)
		return
	}
	messages, err := h.repos.Messages.ListNewestFirst(ctx)
	if err != nil {
		fail(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"personalInfo":   personalInfo,
			"skills":         skills,
			"projects":       projects,
			"workExperience": workExperience,
			"education":      education,
			"languages":      languages,
			"hackathons":     hackathons,
			"messages":       messages,
		},
	})
}

// Normalize 将 JSON 列改写为规范形态并返回修复数量。
func (h *DashboardHandler) Normalize(c *gin.Context) {
	result, err := repository.RepairJSONColumns(c.Request.Context(), h.db)
	if err != nil {
		middleware.LoggerFromContext(c).Error("repair json columns failed", slog.Any("error", err))
		Internal(c, "Failed to fix database", err)
		return
	}

	fixed := result.Total()
	if fixed > 0 {
		h.notify(c, "maintenance", "normalize")
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("Database fixed successfully. Fixed %d issues.", fixed),
		"fixedCount": fixed,
		"details":    result,
	})
}
