package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Membership tier validation
	validate.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "S", "M", "L")
	})

	// Point transaction category validation.
	// "kommunikation" shows up in dashboard filter config but was never part
	// of the persisted category set, so it is rejected here too.
	validate.RegisterValidation("point_category", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "entwicklung", "wartung", "schulung", "beratung", "analyse")
	})

	// Module kanban status validation
	validate.RegisterValidation("module_status", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "geplant", "in_arbeit", "im_test", "abgeschlossen", "")
	})

	// Module acceptance status validation
	validate.RegisterValidation("acceptance_status", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "ausstehend", "akzeptiert", "abgelehnt", "")
	})

	// Live status validation (only meaningful once a module is abgeschlossen)
	validate.RegisterValidation("live_status", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "aktiv", "pausiert", "deaktiviert", "")
	})

	// Schulung assignment status validation
	validate.RegisterValidation("assignment_status", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), "offen", "in_bearbeitung", "abgeschlossen", "")
	})
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "tier":
			errors[field] = "Invalid tier. Must be: S, M, or L"
		case "point_category":
			errors[field] = "Invalid category. Must be: entwicklung, wartung, schulung, beratung, or analyse"
		case "module_status":
			errors[field] = "Invalid status. Must be: geplant, in_arbeit, im_test, or abgeschlossen"
		case "acceptance_status":
			errors[field] = "Invalid acceptance status. Must be: ausstehend, akzeptiert, or abgelehnt"
		case "live_status":
			errors[field] = "Invalid live status. Must be: aktiv, pausiert, or deaktiviert"
		case "assignment_status":
			errors[field] = "Invalid status. Must be: offen, in_bearbeitung, or abgeschlossen"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
