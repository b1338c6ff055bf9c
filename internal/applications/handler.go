package applications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireflow-backend/internal/candidates"
	"hireflow-backend/internal/jobs"
	"hireflow-backend/internal/shared/server/respond"
)

const maxCVBytes = 10 << 20

// Handler wires HTTP handlers to the application service.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// RegisterRoutes attaches application routes. Apply is the public candidate
// entry point; the rest serve the staff review flow.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/apply/:slug", h.apply)
	rg.GET("/jobs/:jobId/applications", h.listByJob)
	rg.GET("/applications/:applicationId", h.get)
	rg.PATCH("/applications/:applicationId/status", h.updateStatus)
}

func (h *Handler) apply(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxCVBytes); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "cv file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read cv file", nil)
		return
	}
	defer file.Close()

	req := ApplyRequest{
		JobSlug:    c.Param("slug"),
		FirstName:  c.PostForm("firstName"),
		LastName:   c.PostForm("lastName"),
		Email:      c.PostForm("email"),
		Phone:      c.PostForm("phone"),
		CVFileName: fileHeader.Filename,
		CVMimeType: fileHeader.Header.Get("Content-Type"),
		CV:         file,
		IPAddress:  c.ClientIP(),
		LocalTime:  c.PostForm("localTime"),
		Timezone:   c.PostForm("timezone"),
	}

	result, err := h.Service.Apply(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "firstName, email and cv are required", nil)
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		case errors.Is(err, ErrJobNotOpen):
			respond.Error(c, http.StatusConflict, "job_closed", "job is not accepting applications", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit application", nil)
		}
		return
	}

	c.Set("applicationId", result.ApplicationID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"applicationId": result.ApplicationID,
		"candidateId":   result.CandidateID,
		"jobId":         result.JobID,
		"jobTitle":      result.JobTitle,
	})
}

func (h *Handler) listByJob(c *gin.Context) {
	apps, err := h.Service.ListByJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		}
		return
	}
	resp := make([]gin.H, 0, len(apps))
	for _, app := range apps {
		resp = append(resp, appResponse(app))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	detail, err := h.Service.Get(c.Request.Context(), c.Param("applicationId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, candidates.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch application", nil)
		}
		return
	}

	answers := make([]gin.H, 0, len(detail.Answers))
	for _, ans := range detail.Answers {
		answers = append(answers, gin.H{
			"answerId":   ans.ID,
			"questionId": ans.QuestionID,
			"answerText": ans.AnswerText,
			"audioKey":   ans.AudioKey,
			"score":      ans.Score,
			"weightage":  ans.Weightage,
			"duration":   ans.Duration,
		})
	}

	resp := appResponse(detail.Application)
	resp["candidate"] = gin.H{
		"candidateId":        detail.Candidate.ID,
		"firstName":          detail.Candidate.FirstName,
		"lastName":           detail.Candidate.LastName,
		"email":              detail.Candidate.Email,
		"phone":              detail.Candidate.Phone,
		"cvSummary":          detail.Candidate.CVSummary,
		"matchingPercentage": detail.Candidate.MatchingPercentage,
	}
	resp["answers"] = answers
	resp["personalityProfile"] = detail.Application.PersonalityProfile
	resp["interviewTranscript"] = detail.Application.InterviewTranscript

	respond.JSON(c, http.StatusOK, resp)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	err := h.Service.SetStatus(c.Request.Context(), c.Param("applicationId"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown status", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update application", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"applicationId": c.Param("applicationId"), "status": req.Status})
}

func appResponse(app Application) gin.H {
	return gin.H{
		"applicationId":  app.ID,
		"candidateId":    app.CandidateID,
		"jobId":          app.JobID,
		"status":         app.Status,
		"totalScore":     app.TotalScore,
		"totalWeightage": app.TotalWeightage,
		"createdAt":      app.CreatedAt,
		"completedAt":    app.CompletedAt,
	}
}
