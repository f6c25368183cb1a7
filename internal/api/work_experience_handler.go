package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// WorkExperienceHandler 处理工作经历的增删改查。
type WorkExperienceHandler struct {
	repo *repository.WorkExperienceRepository
	changeNotifier
}

func NewWorkExperienceHandler(repo *repository.WorkExperienceRepository, notifier changeNotifier) *WorkExperienceHandler {
	return &WorkExperienceHandler{repo: repo, changeNotifier: notifier}
}

type workExperienceRequest struct {
	Company     string          `json:"company" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	LogoURL     *string         `json:"logoUrl"`
	Href        *string         `json:"href"`
	Description string          `json:"description" validate:"required"`
	Start       string          `json:"start" validate:"required"`
	End         *string         `json:"end"`
	Badges      json.RawMessage `json:"badges"`
	// Order 为空表示保持原值。
	Order *int `json:"order"`
}

type workExperienceUpdateRequest struct {
	ID uint `json:"id" validate:"required"`
	workExperienceRequest
}

func (r workExperienceRequest) apply(w *database.WorkExperience) {
	w.Company = r.Company
	w.Title = r.Title
	w.LogoURL = nullable(r.LogoURL)
	w.Href = nullable(r.Href)
	w.Description = r.Description
	w.Start = r.Start
	w.End = nullable(r.End)
	w.Badges = jsonColumn(r.Badges, emptyJSONArray)
	if r.Order != nil {
		w.Order = *r.Order
	}
}

func (h *WorkExperienceHandler) List(c *gin.Context) {
	rows, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "", "Failed to fetch work experiences")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *WorkExperienceHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	work, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Work experience not found", "Failed to fetch work experience")
		return
	}
	c.JSON(http.StatusOK, work)
}

// Create 新记录总是追加到末尾，忽略请求中的 order。
func (h *WorkExperienceHandler) Create(c *gin.Context) {
	var req workExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	var work database.WorkExperience
	req.apply(&work)
	if err := h.repo.CreateAppended(c.Request.Context(), &work); err != nil {
		respondStoreError(c, err, "", "Failed to create work experience")
		return
	}
	h.notify(c, "work-experience", "create")
	c.JSON(http.StatusOK, work)
}

func (h *WorkExperienceHandler) Update(c *gin.Context) {
	var req workExperienceUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	work, err := h.repo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		respondStoreError(c, err, "Work experience not found", "Failed to update work experience")
		return
	}
	h.save(c, work, req.workExperienceRequest)
}

func (h *WorkExperienceHandler) UpdateByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	work, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Work experience not found", "Failed to update work experience")
		return
	}
	var req workExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	h.save(c, work, req)
}

func (h *WorkExperienceHandler) save(c *gin.Context, work *database.WorkExperience, req workExperienceRequest) {
	req.apply(work)
	if err := h.repo.Update(c.Request.Context(), work); err != nil {
		respondStoreError(c, err, "Work experience not found", "Failed to update work experience")
		return
	}
	h.notify(c, "work-experience", "update")
	c.JSON(http.StatusOK, work)
}

func (h *WorkExperienceHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "Work experience")
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *WorkExperienceHandler) DeleteByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *WorkExperienceHandler) delete(c *gin.Context, id uint) {
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Work experience not found", "Failed to delete work experience")
		return
	}
	h.notify(c, "work-experience", "delete")
	Deleted(c, "Work experience deleted successfully")
}
