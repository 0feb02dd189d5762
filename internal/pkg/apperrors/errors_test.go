package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrResourceNotFound, KindOf(ErrJobNotFound))
	assert.Equal(t, ErrConflict, KindOf(fmt.Errorf("apply: %w", ErrAlreadyApplied)))
	assert.Equal(t, ErrPermissionDenied, KindOf(ErrNotChatAdmin))
	assert.Equal(t, ErrBadRequest, KindOf(ErrCreatorCannotLeave))
	assert.Equal(t, ErrUnauthorized, KindOf(ErrTokenExpired))
	assert.Equal(t, ErrConflict, KindOf(NewConflictError("taken")))
	assert.Nil(t, KindOf(errors.New("unclassified")))
	assert.Nil(t, KindOf(nil))
}

func TestCustomError(t *testing.T) {
	err := NewCustomError(ErrBadRequest, "salary range is inverted").WithCode("VAL_001")

	assert.Equal(t, "salary range is inverted", err.Error())
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "VAL_001", err.Code)
	assert.Equal(t, "bad request", (&CustomError{Err: ErrBadRequest}).Error())
	assert.True(t, Is(err, ErrConflict, ErrBadRequest))
}
