package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// HackathonHandler 处理黑客松经历的增删改查。
type HackathonHandler struct {
	repo *repository.HackathonRepository
	changeNotifier
}

func NewHackathonHandler(repo *repository.HackathonRepository, notifier changeNotifier) *HackathonHandler {
	return &HackathonHandler{repo: repo, changeNotifier: notifier}
}

type hackathonRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Location    string          `json:"location" validate:"required"`
	Dates       string          `json:"dates" validate:"required"`
	Image       *string         `json:"image"`
	Links       json.RawMessage `json:"links"`
	Order       *int            `json:"order"`
}

type hackathonUpdateRequest struct {
	ID uint `json:"id" validate:"required"`
	hackathonRequest
}

func (r hackathonRequest) apply(h *database.Hackathon) {
	h.Title = r.Title
	h.Description = r.Description
	h.Location = r.Location
	h.Dates = r.Dates
	h.Image = nullable(r.Image)
	h.Links = jsonColumn(r.Links, nil)
	if r.Order != nil {
		h.Order = *r.Order
	}
}

func (h *HackathonHandler) List(c *gin.Context) {
	rows, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "", "Failed to fetch hackathons")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *HackathonHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	hackathon, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Hackathon not found", "Failed to fetch hackathon")
		return
	}
	c.JSON(http.StatusOK, hackathon)
}

func (h *HackathonHandler) Create(c *gin.Context) {
	var req hackathonRequest
	if !bindJSON(c, &req) {
		return
	}
	var hackathon database.Hackathon
	req.apply(&hackathon)
	if err := h.repo.CreateAppended(c.Request.Context(), &hackathon); err != nil {
		respondStoreError(c, err, "", "Failed to create hackathon")
		return
	}
	h.notify(c, "hackathons", "create")
	c.JSON(http.StatusOK, hackathon)
}

func (h *HackathonHandler) Update(c *gin.Context) {
	var req hackathonUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	hackathon, err := h.repo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		respondStoreError(c, err, "Hackathon not found", "Failed to update hackathon")
		return
	}
	h.save(c, hackathon, req.hackathonRequest)
}

func (h *HackathonHandler) UpdateByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	hackathon, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Hackathon not found", "Failed to update hackathon")
		return
	}
	var req hackathonRequest
	if !bindJSON(c, &req) {
		return
	}
	h.save(c, hackathon, req)
}

func (h *HackathonHandler) save(c *gin.Context, hackathon *database.Hackathon, req hackathonRequest) {
	req.apply(hackathon)
	if err := h.repo.Update(c.Request.Context(), hackathon); err != nil {
		respondStoreError(c, err, "Hackathon not found", "Failed to update hackathon")
		return
	}
	h.notify(c, "hackathons", "update")
	c.JSON(http.StatusOK, hackathon)
}

func (h *HackathonHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "Hackathon")
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *HackathonHandler) DeleteByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *HackathonHandler) delete(c *gin.Context, id uint) {
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Hackathon not found", "Failed to delete hackathon")
		return
	}
	h.notify(c, "hackathons", "delete")
	Deleted(c, "Hackathon deleted successfully")
}
