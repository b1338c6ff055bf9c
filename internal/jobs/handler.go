package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:jobId", h.get)
	rg.GET("/careers/:slug", h.getBySlug)
	rg.POST("/jobs/:jobId/publish", h.publish)
	rg.GET("/jobs/:jobId/questions", h.listQuestions)
	rg.POST("/jobs/:jobId/questions", h.addQuestion)
	rg.POST("/jobs/:jobId/questions/generate", h.generateQuestions)
}

type createJobRequest struct {
	OrganizationID  string `json:"organizationId"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
}

func (h *Handler) create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	job, err := h.Svc.CreateJob(c.Request.Context(), CreateJobRequest{
		OrganizationID:  req.OrganizationID,
		Title:           req.Title,
		DescriptionHTML: req.DescriptionHTML,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "title and organizationId are required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create job", nil)
		}
		return
	}

	c.Set("jobId", job.ID)
	respond.JSON(c, http.StatusCreated, toJobResponse(job))
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.Svc.Repo.GetJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch job", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toJobResponse(job))
}

func (h *Handler) list(c *gin.Context) {
	orgID := c.Query("organizationId")
	if orgID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "organizationId query parameter is required", nil)
		return
	}
	all, err := h.Svc.Repo.ListJobsByOrg(c.Request.Context(), orgID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	resp := make([]gin.H, 0, len(all))
	for _, job := range all {
		resp = append(resp, toJobResponse(job))
	}
	respond.JSON(c, http.StatusOK, resp)
}

// getBySlug is the public careers-page lookup. Only published jobs resolve.
func (h *Handler) getBySlug(c *gin.Context) {
	job, err := h.Svc.Repo.GetJobBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil || job.Status != StatusPublished {
		if err != nil && !errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch job", nil)
			return
		}
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toJobResponse(job))
}

func (h *Handler) publish(c *gin.Context) {
	if err := h.Svc.Publish(c.Request.Context(), c.Param("jobId")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to publish job", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"status": StatusPublished})
}

type addQuestionRequest struct {
	Text       string `json:"text"`
	Weightage  int    `json:"weightage"`
	OrderIndex int    `json:"orderIndex"`
}

func (h *Handler) addQuestion(c *gin.Context) {
	var req addQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	q, err := h.Svc.AddQuestion(c.Request.Context(), AddQuestionRequest{
		JobID:      c.Param("jobId"),
		Text:       req.Text,
		Weightage:  req.Weightage,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to add question", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toQuestionResponse(q))
}

func (h *Handler) listQuestions(c *gin.Context) {
	questions, err := h.Svc.Questions(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list questions", nil)
		return
	}

	resp := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, toQuestionResponse(q))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) generateQuestions(c *gin.Context) {
	questions, err := h.Svc.GenerateQuestions(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate questions", nil)
		}
		return
	}

	resp := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, toQuestionResponse(q))
	}
	respond.JSON(c, http.StatusCreated, resp)
}

func toJobResponse(job Job) gin.H {
	return gin.H{
		"jobId":           job.ID,
		"organizationId":  job.OrganizationID,
		"title":           job.Title,
		"descriptionHtml": job.DescriptionHTML,
		"status":          job.Status,
		"publicSlug":      job.PublicSlug,
		"createdAt":       job.CreatedAt,
		"publishedAt":     job.PublishedAt,
	}
}

func toQuestionResponse(q Question) gin.H {
	return gin.H{
		"questionId":    q.ID,
		"jobId":         q.JobID,
		"text":          q.Text,
		"weightage":     q.Weightage,
		"isAiGenerated": q.IsAIGenerated,
		"orderIndex":    q.OrderIndex,
	}
}
