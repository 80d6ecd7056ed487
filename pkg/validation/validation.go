package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Domain tags used by request structs
	_ = v.RegisterValidation("vehicle_type", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
		case "standard", "suv", "premium":
			return true
		}
		return false
	})
	_ = v.RegisterValidation("payment_party", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "rider", "driver":
			return true
		}
		return false
	})
	_ = v.RegisterValidation("payment_action", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "confirm", "dispute":
			return true
		}
		return false
	})

	return v
}

// ValidateStruct validates a struct against its validate tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return NewValidationError(verrs)
		}
		return err
	}
	return nil
}
