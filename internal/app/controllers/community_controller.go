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

// CommunityAPI is the community service used by CommunityController
type CommunityAPI interface {
	Create(ctx context.Context, userID int64, req *dto.CreateCommunityRequest) (*models.Community, error)
	List(ctx context.Context, filter models.CommunityFilter, viewerID int64) ([]*models.Community, int, error)
	Mine(ctx context.Context, userID int64) ([]*models.Community, error)
	Get(ctx context.Context, id, viewerID int64) (*models.Community, error)
	Join(ctx context.Context, userID, communityID int64) (*models.Community, error)
	Leave(ctx context.Context, userID, communityID int64) error
	Members(ctx context.Context, communityID int64, offset, limit int) ([]*models.CommunityMember, int, error)
	UpdateMemberRole(ctx context.Context, actorID, communityID, targetID int64, role models.CommunityRole) error
	UploadAvatar(ctx context.Context, actorID, communityID int64, fh *multipart.FileHeader) (*models.Community, error)
}

// CommunityController handles community ("connect") endpoints
type CommunityController struct {
	communityService CommunityAPI
	logger           zerolog.Logger
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService CommunityAPI, logger zerolog.Logger) *CommunityController {
	return &CommunityController{communityService: communityService, logger: logger}
}

// Create makes a community
// @Summary Create community
// @Description Creates the community, the caller's CREATOR membership and the community chat in one transaction.
// @Tags connects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommunityRequest true "Community"
// @Success 201 {object} dto.APIResponse{data=models.Community}
// @Failure 409 {object} dto.ErrorResponse "Name taken"
// @Router /connects [post]
func (c *CommunityController) Create(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	var req dto.CreateCommunityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	community, err := c.communityService.Create(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, community)
}

// List returns communities
// @Summary List communities
// @Tags connects
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name search"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Community}}
// @Router /connects [get]
func (c *CommunityController) List(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	communities, total, err := c.communityService.List(ctx.Request.Context(), models.CommunityFilter{
		Search: ctx.Query("search"),
		Offset: p.Offset(),
		Limit:  p.Size,
	}, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, communities, total, p)
}

// Mine returns the caller's communities
// @Summary My communities
// @Tags connects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Community}
// @Router /connects/mine [get]
func (c *CommunityController) Mine(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	communities, err := c.communityService.Mine(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, communities)
}

// Get returns one community
// @Summary Get community
// @Tags connects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=models.Community}
// @Failure 404 {object} dto.ErrorResponse
// @Router /connects/{id} [get]
func (c *CommunityController) Get(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	community, err := c.communityService.Get(ctx.Request.Context(), id, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, community)
}

// Join adds the caller to a community
// @Summary Join community
// @Tags connects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=models.Community}
// @Failure 403 {object} dto.ErrorResponse "Private community"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Router /connects/{id}/join [post]
func (c *CommunityController) Join(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	community, err := c.communityService.Join(ctx.Request.Context(), user.ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, community)
}

// Leave removes the caller from a community
// @Summary Leave community
// @Tags connects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Creator cannot leave"
// @Failure 404 {object} dto.ErrorResponse "Not a member"
// @Router /connects/{id}/leave [post]
func (c *CommunityController) Leave(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	if err := c.communityService.Leave(ctx.Request.Context(), user.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.MessageResponse{Message: "Left community"})
}

// Members lists community members
// @Summary Community members
// @Tags connects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.CommunityMember}}
// @Router /connects/{id}/members [get]
func (c *CommunityController) Members(ctx *gin.Context) {
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	p := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	members, total, err := c.communityService.Members(ctx.Request.Context(), id, p.Offset(), p.Size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, members, total, p)
}

// UpdateMemberRole changes a member's role
// @Summary Update member role
// @Tags connects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param userId path int true "Member user ID"
// @Param request body dto.UpdateMemberRoleRequest true "Role"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a community admin"
// @Router /connects/{id}/members/{userId} [patch]
func (c *CommunityController) UpdateMemberRole(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	targetID, valid := idParam(ctx, "userId")
	if !valid {
		return
	}
	var req dto.UpdateMemberRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := c.communityService.UpdateMemberRole(ctx.Request.Context(), user.ID, id, targetID, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.MessageResponse{Message: "Role updated"})
}

// UploadAvatar replaces the community avatar
// @Summary Upload community avatar
// @Tags connects
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param avatar formData file true "Image (max 5MB)"
// @Success 200 {object} dto.APIResponse{data=models.Community}
// @Router /connects/{id}/avatar [post]
func (c *CommunityController) UploadAvatar(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	fh := optionalFormFile(ctx, filestorage.FieldCommunityAvatar)
	if fh == nil {
		var present bool
		if fh, present = formFile(ctx, "avatar"); !present {
			return
		}
	}
	community, err := c.communityService.UploadAvatar(ctx.Request.Context(), user.ID, id, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, community)
}
