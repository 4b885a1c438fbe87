package dtos

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/jobly/internal/apperr"
)

var registerOnce sync.Once

// RegisterValidation configures gin's validator to report JSON (or query)
// field names instead of Go field names, and makes JSON bodies with unknown
// fields fail to bind.
func RegisterValidation() {
	registerOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
		}
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// BindError converts a gin binding failure into a bad request whose message
// lists every problem found.
func BindError(err error) *apperr.Error {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return apperr.Wrap(apperr.Invalid(msgs), err)
	case errors.As(err, &typeErr):
		field := "instance"
		if typeErr.Field != "" {
			field += "." + typeErr.Field
		}
		msg := fmt.Sprintf("%s is not of a type(s) %s", field, typeErr.Type.String())
		return apperr.Wrap(apperr.Invalid([]string{msg}), err)
	case errors.As(err, &synErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Wrap(apperr.BadRequest("Invalid JSON format"), err)
	default:
		return apperr.Wrap(apperr.Invalid([]string{err.Error()}), err)
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("instance requires property %q", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid url", fe.Field())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", fe.Field())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}
