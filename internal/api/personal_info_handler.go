package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// PersonalInfoHandler 读写唯一的个人信息记录。
type PersonalInfoHandler struct {
	repo *repository.PersonalInfoRepository
	changeNotifier
}

func NewPersonalInfoHandler(repo *repository.PersonalInfoRepository, notifier changeNotifier) *PersonalInfoHandler {
	return &PersonalInfoHandler{repo: repo, changeNotifier: notifier}
}

// locationLink、avatarUrl 缺失时保留原值。
type personalInfoRequest struct {
	Name         string  `json:"name" validate:"required"`
	Initials     string  `json:"initials" validate:"required"`
	URL          string  `json:"url" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	LocationLink *string `json:"locationLink"`
	Description  string  `json:"description" validate:"required"`
	Summary      string  `json:"summary" validate:"required"`
	AvatarURL    *string `json:"avatarUrl"`
}

func (r personalInfoRequest) apply(info *database.PersonalInfo) {
	info.Name = r.Name
	info.Initials = r.Initials
	info.URL = r.URL
	info.Location = r.Location
	info.Description = r.Description
	info.Summary = r.Summary
	if r.LocationLink != nil {
		info.LocationLink = nullable(r.LocationLink)
	}
	if r.AvatarURL != nil {
		info.AvatarURL = nullable(r.AvatarURL)
	}
}

func (h *PersonalInfoHandler) Get(c *gin.Context) {
	info, err := h.repo.First(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Personal information not found", "Failed to fetch personal information")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *PersonalInfoHandler) Put(c *gin.Context) {
	var req personalInfoRequest
	if !bindJSON(c, &req) {
		return
	}
	info, err := h.repo.Upsert(c.Request.Context(), req.apply)
	if err != nil {
		respondStoreError(c, err, "", "Failed to update personal information")
		return
	}
	h.notify(c, "personal-info", "update")
	c.JSON(http.StatusOK, info)
}
