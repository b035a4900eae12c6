package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,15}$`)
)

// validate checks struct tags on every model. Field names in errors are the
// json names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "shopemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// fieldCodes maps a json field name to the code reported when it fails
var fieldCodes = map[string]string{
	"name":       "MISSING_NAME",
	"email":      "INVALID_EMAIL",
	"phone":      "INVALID_PHONE",
	"price":      "INVALID_PRICE",
	"quantity":   "INVALID_QUANTITY",
	"discount":   "INVALID_DISCOUNT",
	"client_id":  "MISSING_CLIENT",
	"product_id": "MISSING_PRODUCT",
}

// validateStruct runs the tag rules of s and reports the first failure
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	return toValidationError(fieldErrs[0], "")
}

// validateValue checks a single value against tag, reporting it as field
func validateValue(value any, tag, field string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	return toValidationError(fieldErrs[0], field)
}

func toValidationError(fe validator.FieldError, field string) *ValidationError {
	if field == "" {
		field = fe.Field()
	}
	code, ok := fieldCodes[field]
	if !ok {
		code = "INVALID_" + strings.ToUpper(field)
	}
	if strings.Contains(fe.Namespace(), "items[") {
		// item failures are reported against the order's item list
		field = "items"
	}
	return &ValidationError{Code: code, Field: field, Message: describe(fe, field)}
}

func describe(fe validator.FieldError, field string) string {
	subject := fe.Field()
	if subject == "" {
		subject = field
	}
	switch fe.Tag() {
	case "required", "notblank":
		return subject + " is required"
	case "shopemail":
		return fmt.Sprintf("invalid email %q", fe.Value())
	case "phone":
		return fmt.Sprintf("invalid phone %q", fe.Value())
	case "finite":
		return fmt.Sprintf("%s must be a finite number, got %v", subject, fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", subject, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", subject, fe.Param(), fe.Value())
	case "lt":
		return fmt.Sprintf("%s must be less than %s, got %v", subject, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s check, got %v", subject, fe.Tag(), fe.Value())
	}
}
