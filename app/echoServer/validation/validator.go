// Package validation adapts go-playground/validator to echo's
// Validator interface so handlers can call c.Validate on bound requests.
package validation

import (
	"github.com/go-playground/validator/v10"
)

type RequestValidator struct {
	check *validator.Validate
}

func New() *RequestValidator {
	return &RequestValidator{check: validator.New()}
}

// Validate runs struct-tag validation on a bound request payload.
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.check.Struct(i)
}
