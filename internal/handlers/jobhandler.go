package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/apperr"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// JobStore is the part of services.JobService the handlers use.
type JobStore interface {
	CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error)
	FindAll(ctx context.Context) ([]models.Job, error)
	Get(ctx context.Context, id int) (*models.Job, error)
	Update(ctx context.Context, id int, updates []sqlbuild.Assignment) (*models.Job, error)
	Remove(ctx context.Context, id int) error
}

// JobExtractor turns a free-text job posting into a draft job.
type JobExtractor interface {
	ExtractJob(ctx context.Context, rawText string) (*dtos.JobDraft, error)
}

type JobHandler struct {
	Jobs JobStore
	// Extractor is nil when no LLM is configured.
	Extractor JobExtractor
}

func NewJobHandler(jobs JobStore, extractor JobExtractor) *JobHandler {
	return &JobHandler{Jobs: jobs, Extractor: extractor}
}

// ParseJob is the POST /jobs/extract endpoint. The draft is returned for
// review and is not saved.
func (h *JobHandler) ParseJob(c *gin.Context) {
	if h.Extractor == nil {
		fail(c, apperr.BadRequest("Job extraction is not configured"))
		return
	}
	var req dtos.JobExtractionRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.Extractor.ExtractJob(c.Request.Context(), req.RawText)
	if err != nil {
		fail(c, fmt.Errorf("extracting job: %w", err))
		return
	}
	draft.CompanyHandle = req.CompanyHandle
	c.JSON(http.StatusOK, gin.H{"job": draft})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		fail(c, apperr.Invalid([]string{err.Error()}))
		return
	}

	job, err := h.Jobs.CreateJob(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.Jobs.FindAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	job, err := h.Jobs.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	var req dtos.JobUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		fail(c, apperr.Invalid([]string{err.Error()}))
		return
	}

	job, err := h.Jobs.Update(c.Request.Context(), id, req.Assignments())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.Jobs.Remove(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// jobID reads the :id route parameter.
func jobID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		fail(c, apperr.BadRequest(fmt.Sprintf("Invalid job id: %s", raw)))
		return 0, false
	}
	return id, true
}
