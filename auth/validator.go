package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks the validate tags of s and wraps any failure into kind.
func ValidateStruct(s any, kind error) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", kind, err)
	}
	return nil
}
