package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"paygate-console/pkg/apierror"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Validator checks request and response payloads against their struct tags.
// Field names are reported by their JSON names.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Fields validates obj and lists every failing field. A nil result means obj
// is valid.
func (v *Validator) Fields(obj any) ([]FieldError, error) {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, err
	}

	root := rootName(obj)
	out := make([]FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		out = append(out, FieldError{
			Field:   fieldPath(root, fieldErr),
			Message: message(fieldErr),
			Type:    fieldErr.Tag(),
		})
	}
	return out, nil
}

// Check validates obj and returns a 400 *apierror.APIError listing the
// failing fields.
func (v *Validator) Check(obj any) error {
	fields, err := v.Fields(obj)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return apierror.Validation(fields)
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read as "filters.status" or "data[3].id".
func fieldPath(root string, err validator.FieldError) string {
	if rest, ok := strings.CutPrefix(err.Namespace(), root+"."); ok {
		return rest
	}
	return err.Field()
}

func rootName(obj any) string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "required_if":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "url":
		return "Invalid URL"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "len":
		return "Value must be exactly " + err.Param() + " characters"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	case "lte":
		return "Value must be less than or equal to " + err.Param()
	case "oneof":
		return "Value must be one of: " + strings.ReplaceAll(err.Param(), " ", ", ")
	case "number", "numeric":
		return "Value must be numeric"
	case "nefield":
		return "Value must differ from " + err.Param()
	default:
		return "Invalid value"
	}
}
