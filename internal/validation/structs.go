// Package validation filters untrusted quiz answers and catalog records before scoring.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/candidate-match/internal/types"
)

var structs = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("policyarea", func(fl validator.FieldLevel) bool {
		return types.PolicyArea(fl.Field().String()).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("failed to register policyarea validation: %v", err))
	}
	return v
}

// Struct validates s against its `validate` tags, including the custom
// `policyarea` tag.
func Struct(s any) error {
	return structs.Struct(s)
}

// FirstError renders the first field failure of a validator error, or a
// generic message for anything else.
func FirstError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", fe.Namespace(), fe.Tag())
	}
	return "validation error: invalid request"
}
