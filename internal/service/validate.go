package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"driver-scheduler/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return model.ValidStatus(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// check validates the struct tags of in and turns the first failure into
// a bad request.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return badRequest("%s is required", fe.Field())
	case "status":
		return badRequest("Invalid status: %v", fe.Value())
	case "gte":
		return badRequest("%s must not be negative", fe.Field())
	}
	return badRequest("Invalid %s", fe.Field())
}
