package orgs

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hireflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the repository.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches organization routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations", h.create)
	rg.GET("/organizations", h.list)
	rg.GET("/organizations/:slug", h.getBySlug)
}

type createOrgRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Slug      string `json:"slug"`
}

func (h *Handler) create(c *gin.Context) {
	var req createOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Email == "" || req.Slug == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name, email and slug are required", nil)
		return
	}

	now := time.Now().UTC()
	org := Organization{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Slug:      req.Slug,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Repo.Create(c.Request.Context(), org); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create organization", nil)
		return
	}

	c.Set("organizationId", org.ID)
	respond.JSON(c, http.StatusCreated, toResponse(org))
}

func (h *Handler) list(c *gin.Context) {
	all, err := h.Repo.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list organizations", nil)
		return
	}
	resp := make([]gin.H, 0, len(all))
	for _, org := range all {
		resp = append(resp, toResponse(org))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) getBySlug(c *gin.Context) {
	org, err := h.Repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "organization not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch organization", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(org))
}

func toResponse(org Organization) gin.H {
	return gin.H{
		"organizationId": org.ID,
		"name":           org.Name,
		"email":          org.Email,
		"slug":           org.Slug,
		"status":         org.Status,
		"createdAt":      org.CreatedAt,
	}
}
