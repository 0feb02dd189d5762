package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/middleware"
	"github.com/yigit/hireboard/internal/pkg/helpers"
)

// JobAPI is the job service used by JobController
type JobAPI interface {
	Create(ctx context.Context, actor models.Actor, req *dto.CreateJobRequest) (*models.Job, error)
	Get(ctx context.Context, viewer *models.Actor, jobID int64) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error)
	Mine(ctx context.Context, actor models.Actor, offset, limit int) ([]*models.Job, int, error)
	Update(ctx context.Context, actor models.Actor, jobID int64, req *dto.UpdateJobRequest) (*models.Job, error)
	UpdateStatus(ctx context.Context, actor models.Actor, jobID int64, status models.JobStatus) (*models.Job, error)
	Delete(ctx context.Context, actor models.Actor, jobID int64) error
}

// JobController handles job endpoints
type JobController struct {
	jobService JobAPI
	logger     zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService JobAPI, logger zerolog.Logger) *JobController {
	return &JobController{jobService: jobService, logger: logger}
}

// List searches active jobs
// @Summary Search jobs
// @Description Lists ACTIVE jobs. Search is accent and case insensitive.
// @Tags jobs
// @Produce json
// @Param search query string false "Text search"
// @Param location query string false "Location"
// @Param employmentType query string false "Employment type" Enums(FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP, REMOTE)
// @Param salaryMin query int false "Minimum salary"
// @Param companyId query int false "Company ID"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Job}}
// @Router /jobs [get]
func (c *JobController) List(ctx *gin.Context) {
	var q dto.JobListQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	jobs, total, err := c.jobService.List(ctx.Request.Context(), models.JobFilter{
		Search:         q.Search,
		Location:       q.Location,
		EmploymentType: q.EmploymentType,
		SalaryMin:      q.SalaryMin,
		CompanyID:      q.CompanyID,
		Offset:         p.Offset(),
		Limit:          p.Size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, jobs, total, p)
}

// Get returns one job
// @Summary Get job
// @Description DRAFT and CLOSED jobs are visible only to their owner and admins.
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=models.Job}
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [get]
func (c *JobController) Get(ctx *gin.Context) {
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	var viewer *models.Actor
	if user, authed := middleware.CurrentUser(ctx); authed {
		actor := user.Actor()
		viewer = &actor
	}

	job, err := c.jobService.Get(ctx.Request.Context(), viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, job)
}

// Mine lists the caller's company jobs in every status
// @Summary My jobs
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Job}}
// @Router /jobs/mine [get]
func (c *JobController) Mine(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	jobs, total, err := c.jobService.Mine(ctx.Request.Context(), user.Actor(), p.Offset(), p.Size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, jobs, total, p)
}

// Create publishes a job
// @Summary Create job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job data"
// @Success 201 {object} dto.APIResponse{data=models.Job}
// @Failure 400 {object} dto.ErrorResponse "Invalid salary range or expiry"
// @Failure 403 {object} dto.ErrorResponse "No company profile"
// @Router /jobs [post]
func (c *JobController) Create(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	var req dto.CreateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	job, err := c.jobService.Create(ctx.Request.Context(), user.Actor(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, job)
}

// Update edits a job
// @Summary Update job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body dto.UpdateJobRequest true "Job fields"
// @Success 200 {object} dto.APIResponse{data=models.Job}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /jobs/{id} [put]
func (c *JobController) Update(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.UpdateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	job, err := c.jobService.Update(ctx.Request.Context(), user.Actor(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, job)
}

// UpdateStatus changes a job's status
// @Summary Update job status
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body dto.UpdateJobStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse{data=models.Job}
// @Router /jobs/{id}/status [patch]
func (c *JobController) UpdateStatus(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.UpdateJobStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	job, err := c.jobService.UpdateStatus(ctx.Request.Context(), user.Actor(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, job)
}

// Delete removes a job
// @Summary Delete job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Router /jobs/{id} [delete]
func (c *JobController) Delete(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.jobService.Delete(ctx.Request.Context(), user.Actor(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.MessageResponse{Message: "Job deleted"})
}
