// Package validator adapts go-playground/validator to echo and the domain error taxonomy.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	domainerrors "catalog/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their json (or form) name.
func New() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	return &CustomValidator{validate: validate}
}

// Validate returns a *domainerrors.ValidationError listing every rejected field.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errors.WithStack(err)
	}

	fields := make([]domainerrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: Message(fe.Field(), fe.Tag(), fe.Param(), fe.Kind()),
		})
	}

	return domainerrors.NewValidationError(fields...)
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}

	return field.Name
}

// Message renders the human readable text for a failed rule.
func Message(field, tag, param string, kind reflect.Kind) string {
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, param)
		}
		if kind == reflect.Slice {
			return fmt.Sprintf("The %s field must not have more than %s items.", field, param)
		}

		return fmt.Sprintf("The %s field must not be greater than %s.", field, param)
	case "min":
		if kind == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
		}

		return fmt.Sprintf("The %s field must be at least %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s field must be greater than or equal to %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s field must be less than or equal to %s.", field, param)
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, param)
	case "numeric", "number":
		return fmt.Sprintf("The %s field must be a number.", field)
	case "integer":
		return fmt.Sprintf("The %s field must be an integer.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
