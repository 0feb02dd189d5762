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

// AdminAPI is the moderation service used by AdminController
type AdminAPI interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error)
	SetUserActive(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error)
	ListCompanies(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error)
	VerifyCompany(ctx context.Context, actor models.Actor, companyID int64, verified bool) (*models.Company, error)
	DeleteJob(ctx context.Context, actor models.Actor, jobID int64) error
}

type adminUserQuery struct {
	Role   models.RoleType `form:"role" binding:"omitempty,oneof=USER COMPANY ADMIN"`
	Search string          `form:"search"`
}

// AdminController handles ADMIN-only endpoints
type AdminController struct {
	adminService AdminAPI
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService AdminAPI, logger zerolog.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

// Stats returns platform counters
// @Summary Platform stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StatsResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.adminService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, stats)
}

// ListUsers returns accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role" Enums(USER, COMPANY, ADMIN)
// @Param search query string false "Name or email search"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.User}}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	var q adminUserQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	users, total, err := c.adminService.ListUsers(ctx.Request.Context(), models.UserFilter{
		Role:   q.Role,
		Search: q.Search,
		Offset: p.Offset(),
		Limit:  p.Size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, users, total, p)
}

// SetUserStatus activates or deactivates an account
// @Summary Update user status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Cannot deactivate self"
// @Router /admin/users/{id}/status [patch]
func (c *AdminController) SetUserStatus(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.UpdateUserStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	updated, err := c.adminService.SetUserActive(ctx.Request.Context(), user.Actor(), id, *req.IsActive)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, updated)
}

// ListCompanies returns companies for review
// @Summary List companies for review
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param verified query bool false "Verification filter"
// @Param search query string false "Name search"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Company}}
// @Router /admin/companies [get]
func (c *AdminController) ListCompanies(ctx *gin.Context) {
	var q companyListQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	companies, total, err := c.adminService.ListCompanies(ctx.Request.Context(), models.CompanyFilter{
		Search:   q.Search,
		Verified: q.Verified,
		Offset:   p.Offset(),
		Limit:    p.Size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, companies, total, p)
}

// VerifyCompany sets a company's verification flag
// @Summary Verify company
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param request body dto.VerifyCompanyRequest true "Verification"
// @Success 200 {object} dto.APIResponse{data=models.Company}
// @Router /admin/companies/{id}/verify [patch]
func (c *AdminController) VerifyCompany(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.VerifyCompanyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	company, err := c.adminService.VerifyCompany(ctx.Request.Context(), user.Actor(), id, *req.IsVerified)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, company)
}

// DeleteJob removes any job
// @Summary Delete job
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Router /admin/jobs/{id} [delete]
func (c *AdminController) DeleteJob(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.adminService.DeleteJob(ctx.Request.Context(), user.Actor(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.MessageResponse{Message: "Job deleted"})
}
