package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidEmail reports whether the string looks like an email address.
func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
