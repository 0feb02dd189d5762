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
)

// UserAPI is the profile service used by UserController
type UserAPI interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.User, error)
	UploadResume(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.User, error)
}

// UserController handles user profile endpoints
type UserController struct {
	userService UserAPI
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService UserAPI, logger zerolog.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

// GetUser returns a public profile
// @Summary Get user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, valid := idParam(ctx, "id")
	if !valid {
		return
	}
	user, err := c.userService.GetProfile(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, user)
}

// UpdateMe updates the caller's profile
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/me [put]
func (c *UserController) UpdateMe(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	updated, err := c.userService.UpdateProfile(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, updated)
}

// UploadAvatar replaces the caller's avatar
// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image (jpeg, png, webp, gif; max 5MB)"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Missing, oversized or unsupported file"
// @Router /users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	c.upload(ctx, filestorage.FieldAvatar, c.userService.UploadAvatar)
}

// UploadResume replaces the caller's resume
// @Summary Upload resume
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "PDF or Word document (max 10MB)"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Missing, oversized or unsupported file"
// @Router /users/me/resume [post]
func (c *UserController) UploadResume(ctx *gin.Context) {
	c.upload(ctx, filestorage.FieldResume, c.userService.UploadResume)
}

func (c *UserController) upload(
	ctx *gin.Context,
	field string,
	store func(context.Context, int64, *multipart.FileHeader) (*models.User, error),
) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	fh, present := formFile(ctx, field)
	if !present {
		return
	}

	updated, err := store(ctx.Request.Context(), user.ID, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, updated)
}
