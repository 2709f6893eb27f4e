package types

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the domain enum tags registered
// and JSON field names reported in errors.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
			return Stage(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("verdict", func(fl validator.FieldLevel) bool {
			return Verdict(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("interview_process", func(fl validator.FieldLevel) bool {
			return InterviewProcess(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("result", func(fl validator.FieldLevel) bool {
			return Result(fl.Field().String()).IsValid()
		})
		validate = v
	})
	return validate
}

// ValidateStruct validates s and converts the first failure into a *ValidationError.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: validationMessage(fe)}
	}
	return err
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "eq":
		return "must be " + fe.Param()
	case "stage", "verdict", "interview_process", "result":
		return "invalid " + fe.Tag()
	default:
		return fe.Tag()
	}
}
