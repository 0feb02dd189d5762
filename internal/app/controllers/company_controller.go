package controllers

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/middleware"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
	"github.com/yigit/hireboard/internal/pkg/helpers"
)

// CompanyAPI is the company service used by CompanyController
type CompanyAPI interface {
	Create(ctx context.Context, actor models.Actor, req *dto.CreateCompanyRequest) (*models.Company, error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	Mine(ctx context.Context, userID int64) (*models.Company, error)
	List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error)
	UpdateMine(ctx context.Context, userID int64, req *dto.UpdateCompanyRequest) (*models.Company, error)
	UploadLogo(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.Company, error)
	ListJobs(ctx context.Context, companyID int64, offset, limit int) ([]*models.Job, int, error)
}

// companyListQuery holds the company search filters
type companyListQuery struct {
	Search   string `form:"search"`
	Verified *bool  `form:"verified"`
}

// CompanyController handles company endpoints
type CompanyController struct {
	companyService CompanyAPI
	logger         zerolog.Logger
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService CompanyAPI, logger zerolog.Logger) *CompanyController {
	return &CompanyController{companyService: companyService, logger: logger}
}

// Create registers the caller's company
// @Summary Create company
// @Description COMPANY accounts register one company profile. Admins are alerted for verification.
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCompanyRequest true "Company data"
// @Success 201 {object} dto.APIResponse{data=models.Company}
// @Failure 403 {object} dto.ErrorResponse "Not a company account"
// @Failure 409 {object} dto.ErrorResponse "Company already exists"
// @Router /companies [post]
func (c *CompanyController) Create(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	var req dto.CreateCompanyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	company, err := c.companyService.Create(ctx.Request.Context(), user.Actor(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, company)
}

// List returns companies
// @Summary List companies
// @Tags companies
// @Produce json
// @Param search query string false "Name search"
// @Param verified query bool false "Verification filter"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Company}}
// @Router /companies [get]
func (c *CompanyController) List(ctx *gin.Context) {
	var q companyListQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	companies, total, err := c.companyService.List(ctx.Request.Context(), models.CompanyFilter{
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

// Get returns one company
// @Summary Get company
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=models.Company}
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/{id} [get]
func (c *CompanyController) Get(ctx *gin.Context) {
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	company, err := c.companyService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, company)
}

// Mine returns the caller's company
// @Summary My company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Company}
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/mine [get]
func (c *CompanyController) Mine(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	company, err := c.companyService.Mine(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, company)
}

// UpdateMine edits the caller's company
// @Summary Update my company
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateCompanyRequest true "Company fields"
// @Success 200 {object} dto.APIResponse{data=models.Company}
// @Router /companies/mine [put]
func (c *CompanyController) UpdateMine(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	var req dto.UpdateCompanyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	company, err := c.companyService.UpdateMine(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, company)
}

// UploadLogo replaces the caller's company logo
// @Summary Upload company logo
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param logo formData file true "Image (max 5MB)"
// @Success 200 {object} dto.APIResponse{data=models.Company}
// @Router /companies/mine/logo [post]
func (c *CompanyController) UploadLogo(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	fh, present := formFile(ctx, filestorage.FieldLogo)
	if !present {
		return
	}
	company, err := c.companyService.UploadLogo(ctx.Request.Context(), user.ID, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, company)
}

// ListJobs returns a company's active jobs
// @Summary Company jobs
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Job}}
// @Router /companies/{id}/jobs [get]
func (c *CompanyController) ListJobs(ctx *gin.Context) {
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	jobs, total, err := c.companyService.ListJobs(ctx.Request.Context(), id, p.Offset(), p.Size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, jobs, total, p)
}
