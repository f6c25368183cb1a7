package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// SkillHandler 处理技能的增删改查。
type SkillHandler struct {
	repo *repository.SkillRepository
	changeNotifier
}

func NewSkillHandler(repo *repository.SkillRepository, notifier changeNotifier) *SkillHandler {
	return &SkillHandler{repo: repo, changeNotifier: notifier}
}

type skillRequest struct {
	Name     string  `json:"name" validate:"required"`
	Icon     string  `json:"icon" validate:"required"`
	Category *string `json:"category"`
}

type skillUpdateRequest struct {
	ID uint `json:"id" validate:"required"`
	skillRequest
}

func (r skillRequest) apply(skill *database.Skill) {
	skill.Name = r.Name
	skill.Icon = r.Icon
	skill.Category = nullable(r.Category)
}

func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "", "Failed to fetch skills")
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (h *SkillHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	skill, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Skill not found", "Failed to fetch skill")
		return
	}
	c.JSON(http.StatusOK, skill)
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req skillRequest
	if !bindJSON(c, &req) {
		return
	}
	var skill database.Skill
	req.apply(&skill)
	if err := h.repo.Create(c.Request.Context(), &skill); err != nil {
		respondStoreError(c, err, "", "Failed to create skill")
		return
	}
	h.notify(c, "skills", "create")
	c.JSON(http.StatusOK, skill)
}

// Update 处理集合路由的 PUT，ID 位于请求体中。
func (h *SkillHandler) Update(c *gin.Context) {
	var req skillUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	skill, err := h.repo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		respondStoreError(c, err, "Skill not found", "Failed to update skill")
		return
	}
	h.save(c, skill, req.skillRequest)
}

// UpdateByID 处理 /:id 的 PUT，先确认记录存在再校验请求体。
func (h *SkillHandler) UpdateByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	skill, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Skill not found", "Failed to update skill")
		return
	}
	var req skillRequest
	if !bindJSON(c, &req) {
		return
	}
	h.save(c, skill, req)
}

func (h *SkillHandler) save(c *gin.Context, skill *database.Skill, req skillRequest) {
	req.apply(skill)
	if err := h.repo.Update(c.Request.Context(), skill); err != nil {
		respondStoreError(c, err, "Skill not found", "Failed to update skill")
		return
	}
	h.notify(c, "skills", "update")
	c.JSON(http.StatusOK, skill)
}

func (h *SkillHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "Skill")
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *SkillHandler) DeleteByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *SkillHandler) delete(c *gin.Context, id uint) {
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Skill not found", "Failed to delete skill")
		return
	}
	h.notify(c, "skills", "delete")
	Deleted(c, "Skill deleted successfully")
}
