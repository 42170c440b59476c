package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	clockPattern = regexp.MustCompile(`^(([01]\d|2[0-3]):[0-5]\d)?$`)
	taxIDPattern = regexp.MustCompile(`^[0-9./\-]*$`)
)

// Register adds the project tags to v:
//
//	clock  HH:MM, 24h, or empty to clear
//	taxid  CPF/CNPJ digits with optional punctuation
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
		return taxIDPattern.MatchString(fl.Field().String())
	})
}
