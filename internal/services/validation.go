package services

import (
	"github.com/go-playground/validator/v10"

	"roboturkiye-backend/internal/apperrors"
)

// validate reads the same `binding` tags gin uses, so inputs built outside
// an HTTP request are held to the same rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return apperrors.From(err)
	}
	return nil
}
