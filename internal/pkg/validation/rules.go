package validation

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation rule limits
var (
	PasswordMinLength = 8
	PasswordMaxLength = 72 // bcrypt ignores bytes past 72
)

// IsStrongPassword reports whether password satisfies the registration policy:
// length within bounds and at least one letter and one digit.
func IsStrongPassword(password string) bool {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// RegisterCustomValidations adds the project's tags to a validator instance.
// gin's binding engine is passed in at bootstrap.
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}
