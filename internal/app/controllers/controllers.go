// Package controllers handles HTTP request handling
package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/middleware"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/helpers"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func respondPage(c *gin.Context, items interface{}, total int, p helpers.Page) {
	respondOK(c, helpers.NewPaginatedResponse(items, total, p))
}

// idParam parses a positive path id or answers 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, valid := helpers.ParseIDParam(c, name)
	if !valid {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("invalid "+name))
		return 0, false
	}
	return id, true
}

// formFile returns the named upload or answers 400 when it is missing.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError(field+" file is required"))
		return nil, false
	}
	return fh, true
}

// optionalFormFile returns the named upload, or nil when the request has none.
func optionalFormFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}
