package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError_SingleField(t *testing.T) {
	v := validator.New()
	err := v.Struct(struct {
		Email string `validate:"required,email"`
	}{Email: "nope"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "email", detail.Field)
	assert.Equal(t, "email must be a valid email address", detail.Message)
}

func TestHandleValidationError_ManyFields(t *testing.T) {
	v := validator.New()
	err := v.Struct(struct {
		Title string `validate:"required"`
		Size  string `validate:"oneof=S M"`
	}{Size: "XL"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)
	assert.Len(t, fields, 2)
	assert.Equal(t, "title is required", fields[0].Message)
	assert.Equal(t, "size must be one of: S M", fields[1].Message)
	assert.Empty(t, detail.Field)
}

func TestHandleValidationError_NotValidatorError(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, "Invalid request format", detail.Message)
	assert.Equal(t, "unexpected EOF", detail.Details)
}
