package middleware

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/dberrors"
	"github.com/yigit/hireboard/internal/pkg/logger"
)

var hideInternalErrors atomic.Bool

// SetProductionMode hides the message of unclassified errors from responses.
func SetProductionMode(production bool) {
	hideInternalErrors.Store(production)
}

// specific codes override the generic code of their kind
var errorCodes = map[error]dto.ErrorCode{
	apperrors.ErrInvalidCredentials: dto.ErrorCodeInvalidCredentials,
	apperrors.ErrEmailNotVerified:   dto.ErrorCodeEmailNotVerified,
	apperrors.ErrAccountDisabled:    dto.ErrorCodeAccountDisabled,
	apperrors.ErrInvalidOTP:         dto.ErrorCodeInvalidOTP,
	apperrors.ErrOTPExpired:         dto.ErrorCodeInvalidOTP,
	apperrors.ErrTokenExpired:       dto.ErrorCodeExpiredToken,
	apperrors.ErrTokenInvalid:       dto.ErrorCodeInvalidToken,
	apperrors.ErrTokenNotFound:      dto.ErrorCodeTokenNotFound,
	apperrors.ErrValidationFailed:   dto.ErrorCodeValidationFailed,
	apperrors.ErrEmailAlreadyExists: dto.ErrorCodeResourceAlreadyExists,
}

var kindStatus = map[error]struct {
	status int
	code   dto.ErrorCode
}{
	apperrors.ErrResourceNotFound: {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrConflict:         {http.StatusConflict, dto.ErrorCodeConflict},
	apperrors.ErrPermissionDenied: {http.StatusForbidden, dto.ErrorCodeForbidden},
	apperrors.ErrBadRequest:       {http.StatusBadRequest, dto.ErrorCodeBadRequest},
	apperrors.ErrUnauthorized:     {http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
}

// StatusOf returns the HTTP status HandleAPIError would answer err with.
func StatusOf(err error) int {
	if entry, ok := kindStatus[apperrors.KindOf(dberrors.Classify(err))]; ok {
		return entry.status
	}
	return http.StatusInternalServerError
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	err = dberrors.Classify(err)

	entry, ok := kindStatus[apperrors.KindOf(err)]
	if !ok {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")

		message := "Internal server error"
		if !hideInternalErrors.Load() {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, message)))
		return
	}

	code := entry.code
	for sentinel, specific := range errorCodes {
		if errors.Is(err, sentinel) {
			code = specific
			break
		}
	}

	detail := dto.NewErrorDetail(code, err.Error())
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Code != "" {
			detail.Code = dto.ErrorCode(custom.Code)
		}
		if custom.Details != nil {
			detail.WithDetails(custom.Details)
		}
	}
	c.JSON(entry.status, dto.NewErrorResponse(detail))
}

// Recovery turns panics into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	})
}

// NoRoute answers unknown paths with the 404 envelope.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")))
}
