package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// FieldError is one schema violation; Field is the dotted path into the payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Schema validates a decoded request payload.
type Schema interface {
	Validate(payload any) []FieldError
}

// SchemaFunc adapts a plain function to Schema.
type SchemaFunc func(payload any) []FieldError

func (f SchemaFunc) Validate(payload any) []FieldError { return f(payload) }

var rules = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

type structSchema[T any] struct{}

// Struct returns a schema that decodes the payload into T and enforces T's
// `validate` tags. Decoding is weakly typed so query strings satisfy numeric
// and boolean fields.
func Struct[T any]() Schema {
	return structSchema[T]{}
}

func (structSchema[T]) Validate(payload any) []FieldError {
	var target T
	if payload == nil {
		payload = map[string]any{}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &target,
	})
	if err != nil {
		return []FieldError{{Message: err.Error()}}
	}
	if err := dec.Decode(payload); err != nil {
		return decodeErrors(err)
	}
	if err := rules.Struct(target); err != nil {
		return ruleErrors(err)
	}
	return nil
}

func decodeErrors(err error) []FieldError {
	var derr *mapstructure.Error
	if !errors.As(err, &derr) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(derr.Errors))
	for _, msg := range derr.Errors {
		out = append(out, FieldError{Field: quotedField(msg), Message: msg})
	}
	return out
}

// quotedField pulls the first 'single-quoted' token out of a mapstructure message.
func quotedField(msg string) string {
	start := strings.IndexByte(msg, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

func ruleErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		out = append(out, FieldError{Field: path, Message: ruleMessage(path, fe)})
	}
	return out
}

func ruleMessage(path string, fe validator.FieldError) string {
	label := fmt.Sprintf("%q", path)
	switch fe.Tag() {
	case "required", "required_if", "required_with", "required_without":
		return label + " is required"
	case "email":
		return label + " must be a valid email"
	case "uuid", "uuid4", "uuid_rfc4122":
		return label + " must be a valid GUID"
	case "url", "http_url":
		return label + " must be a valid uri"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", label, fe.Param())
	case "min", "gte":
		return boundMessage(label, fe, "at least", "greater than or equal to")
	case "max", "lte":
		return boundMessage(label, fe, "less than or equal to", "less than or equal to")
	case "len":
		return boundMessage(label, fe, "exactly", "equal to")
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", label, fe.Tag())
	}
}

func boundMessage(label string, fe validator.FieldError, lengthWord, numberWord string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s length must be %s %s characters long", label, lengthWord, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s must contain %s %s items", label, lengthWord, fe.Param())
	default:
		return fmt.Sprintf("%s must be %s %s", label, numberWord, fe.Param())
	}
}
