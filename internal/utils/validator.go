// internal/utils/validator.go
package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var sourceTagPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("source_tag", validateSourceTag)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateSourceTag accepts the lowercase snake_case tags mappers register
// under (jump_cal, bsp_prize, ...).
func validateSourceTag(fl validator.FieldLevel) bool {
	return sourceTagPattern.MatchString(fl.Field().String())
}
