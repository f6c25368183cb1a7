package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// EducationHandler 处理教育经历的增删改查。
type EducationHandler struct {
	repo *repository.EducationRepository
	changeNotifier
}

func NewEducationHandler(repo *repository.EducationRepository, notifier changeNotifier) *EducationHandler {
	return &EducationHandler{repo: repo, changeNotifier: notifier}
}

type educationRequest struct {
	School  string  `json:"school" validate:"required"`
	Degree  string  `json:"degree" validate:"required"`
	LogoURL *string `json:"logoUrl"`
	Href    *string `json:"href"`
	Start   string  `json:"start" validate:"required"`
	End     string  `json:"end" validate:"required"`
	Order   *int    `json:"order"`
}

type educationUpdateRequest struct {
	ID uint `json:"id" validate:"required"`
	educationRequest
}

func (r educationRequest) apply(e *database.Education) {
	e.School = r.School
	e.Degree = r.Degree
	e.LogoURL = nullable(r.LogoURL)
	e.Href = nullable(r.Href)
	e.Start = r.Start
	e.End = r.End
	if r.Order != nil {
		e.Order = *r.Order
	}
}

func (h *EducationHandler) List(c *gin.Context) {
	rows, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "", "Failed to fetch education")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *EducationHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	education, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Education record not found", "Failed to fetch education")
		return
	}
	c.JSON(http.StatusOK, education)
}

func (h *EducationHandler) Create(c *gin.Context) {
	var req educationRequest
	if !bindJSON(c, &req) {
		return
	}
	var edu database.Education
	req.apply(&edu)
	if err := h.repo.CreateAppended(c.Request.Context(), &edu); err != nil {
		respondStoreError(c, err, "", "Failed to create education")
		return
	}
	h.notify(c, "education", "create")
	c.JSON(http.StatusOK, edu)
}

func (h *EducationHandler) Update(c *gin.Context) {
	var req educationUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	edu, err := h.repo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		respondStoreError(c, err, "Education record not found", "Failed to update education")
		return
	}
	h.save(c, edu, req.educationRequest)
}

func (h *EducationHandler) UpdateByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	edu, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Education record not found", "Failed to update education")
		return
	}
	var req educationRequest
	if !bindJSON(c, &req) {
		return
	}
	h.save(c, edu, req)
}

func (h *EducationHandler) save(c *gin.Context, edu *database.Education, req educationRequest) {
	req.apply(edu)
	if err := h.repo.Update(c.Request.Context(), edu); err != nil {
		respondStoreError(c, err, "Education record not found", "Failed to update education")
		return
	}
	h.notify(c, "education", "update")
	c.JSON(http.StatusOK, edu)
}

func (h *EducationHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "Education")
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *EducationHandler) DeleteByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *EducationHandler) delete(c *gin.Context, id uint) {
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Education record not found", "Failed to delete education")
		return
	}
	h.notify(c, "education", "delete")
	Deleted(c, "Education deleted successfully")
}
