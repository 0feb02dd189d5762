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

// ApplicationAPI is the application service used by ApplicationController
type ApplicationAPI interface {
	Apply(ctx context.Context, actor models.Actor, req *dto.ApplyRequest) (*models.Application, error)
	Mine(ctx context.Context, userID int64, offset, limit int) ([]*models.Application, int, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*models.Application, error)
	Withdraw(ctx context.Context, actor models.Actor, id int64) error
	ListForJob(ctx context.Context, actor models.Actor, jobID int64, offset, limit int) ([]*models.Application, int, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id int64, status models.ApplicationStatus) (*models.Application, error)
}

// ApplicationController handles application endpoints
type ApplicationController struct {
	appService ApplicationAPI
	logger     zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(appService ApplicationAPI, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{appService: appService, logger: logger}
}

// Apply submits an application
// @Summary Apply to a job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplyRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=models.Application}
// @Failure 400 {object} dto.ErrorResponse "Job not open"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /applications [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	var req dto.ApplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	app, err := c.appService.Apply(ctx.Request.Context(), user.Actor(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, app)
}

// Mine lists the caller's applications
// @Summary My applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Application}}
// @Router /applications/mine [get]
func (c *ApplicationController) Mine(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	apps, total, err := c.appService.Mine(ctx.Request.Context(), user.ID, p.Offset(), p.Size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, apps, total, p)
}

// Get returns one application
// @Summary Get application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 403 {object} dto.ErrorResponse
// @Router /applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	app, err := c.appService.Get(ctx.Request.Context(), user.Actor(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, app)
}

// Withdraw deletes the caller's application
// @Summary Withdraw application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Already hired"
// @Router /applications/{id} [delete]
func (c *ApplicationController) Withdraw(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.appService.Withdraw(ctx.Request.Context(), user.Actor(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.MessageResponse{Message: "Application withdrawn"})
}

// ListForJob lists the applications of a job the caller owns
// @Summary Job applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Application}}
// @Router /jobs/{id}/applications [get]
func (c *ApplicationController) ListForJob(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	apps, total, err := c.appService.ListForJob(ctx.Request.Context(), user.Actor(), id, p.Offset(), p.Size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, apps, total, p)
}

// UpdateStatus moves an application through the pipeline
// @Summary Update application status
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Router /applications/{id}/status [patch]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	app, err := c.appService.UpdateStatus(ctx.Request.Context(), user.Actor(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, app)
}
