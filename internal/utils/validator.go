// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/keygate/keygate-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("duration", validateDurationToken)
	validate.RegisterValidation("blacklist_type", validateBlacklistType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateDurationToken(fl validator.FieldLevel) bool {
	return IsDurationToken(fl.Field().String())
}

func validateBlacklistType(fl validator.FieldLevel) bool {
	return models.BlacklistType(fl.Field().String()).Valid()
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "duration":
		return "Duration must be \"never\" or an integer followed by s, m, h or d"
	case "blacklist_type":
		return "Invalid blacklist type."
	default:
		return e.Field() + " is invalid"
	}
}
