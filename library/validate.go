package library

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateOptions checks the validate tags on an options struct and turns the
// first failure into an InvalidArgument error.
func validateOptions(opts interface{}) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WithStack(err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return InvalidArgument(fmt.Sprintf("%s is required.", fe.Field()))
	case "gte", "min":
		return InvalidArgument(fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param()))
	default:
		return InvalidArgument(fmt.Sprintf("%s is invalid.", fe.Field()))
	}
}
