package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/coffee-finder/internal/apperror"
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves the whole package.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validationError turns the first failed rule of a validator.ValidationErrors
// into an apperror.ValidationFailed naming the field. Other errors pass
// through unchanged.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(field, field+" is required")
	case "max":
		return apperror.ValidationFailed(field, fmt.Sprintf("%s must be %s characters or less", field, fe.Param()))
	case "min":
		return apperror.ValidationFailed(field, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "latitude":
		return apperror.ValidationFailed(field, "lat must be between -90 and 90")
	case "longitude":
		return apperror.ValidationFailed(field, "lon must be between -180 and 180")
	case "url":
		return apperror.ValidationFailed(field, field+" must be a valid URL")
	case "email":
		return apperror.ValidationFailed(field, field+" must be a valid email address")
	default:
		return apperror.ValidationFailed(field, field+" is invalid")
	}
}
