package sandbox

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

func registerCustomValidations(v *validator.Validate, now func() time.Time) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		m, err := strconv.Atoi(fl.Field().String())
		return err == nil && m >= 1 && m <= 12
	})
	_ = v.RegisterValidation("not_past_year", func(fl validator.FieldLevel) bool {
		y, err := strconv.Atoi(fl.Field().String())
		return err == nil && y >= now().Year()
	})
}

func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerCustomValidations(v, now)
	return v
}

// issues turns validator errors into the 422 detail list. Locations use the
// JSON field names, e.g. ["body", "card", "exp_month"].
func issues(err error) []Issue {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []Issue{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}}
	}
	out := make([]Issue, 0, len(ves))
	for _, fe := range ves {
		// Namespace is "CreateTransactionRequest.card.exp_month"
		parts := strings.Split(fe.Namespace(), ".")
		loc := append([]string{"body"}, parts[1:]...)
		out = append(out, Issue{Loc: loc, Msg: issueMessage(fe), Type: "value_error." + fe.Tag()})
	}
	return out
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "value is not a valid email address"
	case "number":
		return "must contain only digits"
	case "min", "max", "len":
		return fmt.Sprintf("length must satisfy %s=%s", fe.Tag(), fe.Param())
	case "month":
		return "month must be between 1 and 12"
	case "not_past_year":
		return "year must not be in the past"
	default:
		return "invalid value"
	}
}
