package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/database"
	"portfolio/internal/portfolio"
	"portfolio/internal/repository"
)

const slugTakenMessage = "Project with this slug already exists"

// ProjectHandler 处理作品的增删改查。写操作需要登录，slug 在写入前检查唯一性。
type ProjectHandler struct {
	repo    *repository.ProjectRepository
	session sessionGuard
	changeNotifier
}

func NewProjectHandler(repo *repository.ProjectRepository, session sessionGuard, notifier changeNotifier) *ProjectHandler {
	return &ProjectHandler{repo: repo, session: session, changeNotifier: notifier}
}

type projectRequest struct {
	Title        string          `json:"title" validate:"required"`
	Slug         string          `json:"slug" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	Dates        *string         `json:"dates"`
	Image        *string         `json:"image"`
	Video        *string         `json:"video"`
	Technologies json.RawMessage `json:"technologies"`
	Links        json.RawMessage `json:"links"`
	Featured     *bool           `json:"featured"`
	Order        *int            `json:"order"`
}

// projectUpdateRequest 是集合路由 PUT 的请求体；slug 可省略，省略时保持原值。
type projectUpdateRequest struct {
	ID           uint            `json:"id" validate:"required"`
	Title        string          `json:"title" validate:"required"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description" validate:"required"`
	Dates        *string         `json:"dates"`
	Image        *string         `json:"image"`
	Video        *string         `json:"video"`
	Technologies json.RawMessage `json:"technologies"`
	Links        json.RawMessage `json:"links"`
	Featured     *bool           `json:"featured"`
	Order        *int            `json:"order"`
}

func (r projectUpdateRequest) toProjectRequest(existing *database.Project) projectRequest {
	slug := r.Slug
	if slug == "" {
		slug = existing.Slug
	}
	return projectRequest{
		Title:        r.Title,
		Slug:         slug,
		Description:  r.Description,
		Dates:        r.Dates,
		Image:        r.Image,
		Video:        r.Video,
		Technologies: r.Technologies,
		Links:        r.Links,
		Featured:     r.Featured,
		Order:        r.Order,
	}
}

func (r projectRequest) apply(p *database.Project) {
	p.Title = r.Title
	p.Slug = r.Slug
	p.Description = r.Description
	p.Dates = nullable(r.Dates)
	p.Image = nullable(r.Image)
	p.Video = nullable(r.Video)
	p.Technologies = jsonColumn(r.Technologies, emptyJSONArray)
	p.Links = jsonColumn(r.Links, nil)
	if r.Featured != nil {
		p.Featured = *r.Featured
	}
	if r.Order != nil {
		p.Order = *r.Order
	}
}

func (h *ProjectHandler) List(c *gin.Context) {
	rows, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "", "Failed to fetch projects")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	project, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Project not found", "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// GetBySlug 是公开的作品详情接口，返回规范化后的视图。
func (h *ProjectHandler) GetBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	project, err := h.repo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		respondStoreError(c, err, "Project not found", "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, portfolio.ProjectView(*project))
}

// Create 顺序：必填校验、登录检查、slug 唯一性、追加顺序号。
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.session.require(c) {
		return
	}

	ctx := c.Request.Context()
	taken, err := h.repo.SlugTaken(ctx, req.Slug, 0)
	if err != nil {
		respondStoreError(c, err, "", "Failed to create project")
		return
	}
	if taken {
		BadRequest(c, slugTakenMessage)
		return
	}

	var project database.Project
	req.apply(&project)
	if err := h.repo.CreateAppended(ctx, &project); err != nil {
		respondStoreError(c, err, "", "Failed to create project")
		return
	}
	h.notify(c, "projects", "create")
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.session.require(c) {
		return
	}
	project, err := h.repo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		respondStoreError(c, err, "Project not found", "Failed to update project")
		return
	}
	h.save(c, project, req.toProjectRequest(project))
}

func (h *ProjectHandler) UpdateByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.session.require(c) {
		return
	}
	project, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Project not found", "Failed to update project")
		return
	}
	h.save(c, project, req)
}

func (h *ProjectHandler) save(c *gin.Context, project *database.Project, req projectRequest) {
	ctx := c.Request.Context()
	if req.Slug != project.Slug {
		taken, err := h.repo.SlugTaken(ctx, req.Slug, project.ID)
		if err != nil {
			respondStoreError(c, err, "", "Failed to update project")
			return
		}
		if taken {
			BadRequest(c, slugTakenMessage)
			return
		}
	}

	req.apply(project)
	if err := h.repo.Update(ctx, project); err != nil {
		respondStoreError(c, err, "Project not found", "Failed to update project")
		return
	}
	h.notify(c, "projects", "update")
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "Project")
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *ProjectHandler) DeleteByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.delete(c, id)
}

func (h *ProjectHandler) delete(c *gin.Context, id uint) {
	if !h.session.require(c) {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Project not found", "Failed to delete project")
		return
	}
	h.notify(c, "projects", "delete")
	Deleted(c, "Project deleted successfully")
}
