package apiutil

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/Aidin1998/apishape/common/errors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationFailedMessage is the envelope message for request validation errors
const ValidationFailedMessage = "Validation failed"

// FieldError describes one invalid field of a request body
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func NewValidator() *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate}
}

type Validator struct {
	validator *validator.Validate
}

// Validate checks the `validate` struct tags of i. Field failures come back as
// a 400 domain error whose body lists every invalid field.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		var fieldsError validator.ValidationErrors
		if !errors.As(err, &fieldsError) {
			return errors.Wrap(err, http.StatusBadRequest, ValidationFailedMessage)
		}
		return validationError(fieldsError)
	}
	return nil
}

var defaultValidator = NewValidator()

// BindJSON decodes the request body into dst and validates it. Malformed
// bodies and invalid fields are returned as 400 domain errors, ready to be
// recorded with c.Error.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindWith(dst, binding.JSON); err != nil {
		// gin runs its own validator on `binding` tags
		var fieldsError validator.ValidationErrors
		if errors.As(err, &fieldsError) {
			return validationError(fieldsError)
		}
		return errors.Wrap(err, http.StatusBadRequest, "Invalid request body")
	}
	if !isStruct(dst) {
		return nil
	}
	return defaultValidator.Validate(dst)
}

func isStruct(v interface{}) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

func validationError(fieldsError validator.ValidationErrors) *errors.DomainError {
	fields := make([]FieldError, 0, len(fieldsError))
	for _, fieldErr := range fieldsError {
		fields = append(fields, FieldError{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Message: fieldMessage(fieldErr),
		})
	}
	return errors.BadRequest(ValidationFailedMessage).WithBody(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
