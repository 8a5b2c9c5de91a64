package services

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// emailPattern accepts local@domain where the domain contains a dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// rule maps a failed validation tag (optionally on one field) to a message.
type rule struct {
	field string
	tag   string
	msg   string
}

// check validates req and reports the first rule, in rule order, that any
// field violates.
func check(req any, rules []rule) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	for _, r := range rules {
		for _, fe := range verrs {
			if fe.Tag() == r.tag && (r.field == "" || fe.StructField() == r.field) {
				return invalid(r.msg)
			}
		}
	}
	return invalid(verrs[0].Error())
}
