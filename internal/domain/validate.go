package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			return Status(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
			return ValidCity(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks struct tags and returns a *ValidationError keyed by JSON field
// path (e.g. "agent.phone", "images[0]").
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(ves))}
	for _, fe := range ves {
		out.Fields[fieldPath(fe.Namespace())] = describe(fe)
	}
	return out
}

// ValidateVar checks a single value against a tag such as "required,email".
func ValidateVar(field string, v any, tag string) error {
	if err := validatorInstance().Var(v, tag); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			return &ValidationError{Fields: map[string]string{field: describe(ves[0])}}
		}
		return err
	}
	return nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must be a number"
	case "url", "startswith":
		return "must be an http(s) URL"
	case "status", "category", "city":
		return fmt.Sprintf("unknown %s %q", fe.Tag(), fmt.Sprint(fe.Value()))
	default:
		return "failed " + fe.Tag()
	}
}
