package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// ContactHandler 接收公开联系表单。
type ContactHandler struct {
	repo *repository.MessageRepository
}

func NewContactHandler(repo *repository.MessageRepository) *ContactHandler {
	return &ContactHandler{repo: repo}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	// 公开表单不暴露字段名，统一返回固定提示。
	if !bindJSONWithMessage(c, &req, "Missing required fields") {
		return
	}

	msg := database.Message{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.repo.Create(c.Request.Context(), &msg); err != nil {
		respondStoreError(c, err, "", "Something went wrong")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}
