package submissionController

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const SpouseIncompleteMessage = "Please complete all spouse fields, and provide either a spouse birthdate or age."

// ValidationError is returned before any storage call is made. Fields maps the
// form field name to what is wrong with it.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return validate
}

func validateForm(validate *validator.Validate, form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	result := &ValidationError{Fields: make(map[string]string, len(fieldErrors))}
	for _, fieldErr := range fieldErrors {
		result.Fields[fieldErr.Field()] = describe(fieldErr)
	}
	first := fieldErrors[0]
	result.Message = fmt.Sprintf("%s %s", first.Field(), describe(first))

	return result
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "number":
		return "must be a whole number"
	case "datetime":
		return "must be a date formatted YYYY-MM-DD"
	default:
		return "is invalid"
	}
}

// trimStrings trims every string field of the struct ptr points to.
func trimStrings(ptr any) {
	value := reflect.ValueOf(ptr).Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if field.Kind() == reflect.String && field.CanSet() {
			field.SetString(strings.TrimSpace(field.String()))
		}
	}
}
