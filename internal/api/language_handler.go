package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

// LanguageHandler 处理语言能力的增删改查。
type LanguageHandler struct {
	repo *repository.LanguageRepository
	changeNotifier
}

func NewLanguageHandler(repo *repository.LanguageRepository, notifier changeNotifier) *LanguageHandler {
	return &LanguageHandler{repo: repo, changeNotifier: notifier}
}

type languageRequest struct {
	Name     string  `json:"name" validate:"required"`
	Level    string  `json:"level" validate:"required"`
	FlagIcon *string `json:"flagIcon"`
}

type languageUpdateRequest struct {
	ID uint `json:"id" validate:"required"`
	languageRequest
}

func (r languageRequest) apply(lang *database.Language) {
	lang.Name = r.Name
	lang.Level = r.Level
	lang.FlagIcon = nullable(r.FlagIcon)
}

func (h *LanguageHandler) List(c *gin.Context) {
	langs, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "", "Failed to fetch languages")
		return
	}
	c.JSON(http.StatusOK, langs)
}

func (h *LanguageHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	language, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Language not found", "Failed to fetch language")
		return
	}
	c.JSON(http.StatusOK, language)
}

func (h *LanguageHandler) Create(c *gin.Context) {
	var req languageRequest
	if !bindJSON(c, &req) {
		return
	}
	var lang database.Language
	req.apply(&lang)
	if err := h.repo.Create(c.Request.Context(), &lang); err != nil {
		respondStoreError(c, err, "", "Failed to create language")
		return
	}
	h.notify(c, "languages", "create")
	c.JSON(http.StatusCreated, lang)
}

func (h *LanguageHandler) Update(c *gin.Context) {
	var req languageUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	lang, err := h.repo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		respondStoreError(c, err, "Language not found", "Failed to update language")
		return
	}
	h.save(c, lang, req.languageRequest)
}

func (h *LanguageHandler) UpdateByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lang, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Language not found", "Failed to update language")
		return
	}
	var req languageRequest
	if !bindJSON(c, &req) {
		return
	}
	h.save(c, lang, req)
}

func (h *LanguageHandler) save(c *gin.Context, lang *database.Language, req languageRequest) {
	req.apply(lang)
	if err := h.repo.Update(c.Request.Context(), lang); err != nil {
		respondStoreError(c, err, "Language not found", "Failed to update language")
		return
	}
	h.notify(c, "languages", "update")
	c.JSON(http.StatusOK, lang)
}

func (h *LanguageHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "Language")
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *LanguageHandler) DeleteByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *LanguageHandler) delete(c *gin.Context, id uint) {
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Language not found", "Failed to delete language")
		return
	}
	h.notify(c, "languages", "delete")
	Deleted(c, "Language deleted successfully")
}
