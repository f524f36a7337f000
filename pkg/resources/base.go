// Package resources provides typed Azure resource property models with
// two-tier validation.
//
// Each props type offers:
//  1. ValidateProps - hard validation. Returns a catalog-backed
//     *errcatalog.ValidationError when the resource cannot be
//     constructed from the given input (empty required name, invalid
//     CIDR, reserved login). Callers abort construction on it.
//  2. ValidateARMStructure - soft validation. Returns a
//     validation.Result collecting structural and best-practice
//     findings on a representable resource (allow-all rules, tag
//     limits, weak TLS). Callers inspect, log, or escalate.
//
// Mechanical field checks (required, bounds, enums with no semantic
// coupling) run through go-playground struct tags before the semantic
// passes.
package resources

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/flavioaiello/armcheck/pkg/cidr"
	"github.com/flavioaiello/armcheck/pkg/ports"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

// Validation patterns.
var (
	locationPattern = regexp.MustCompile(`^[a-z]{2,}[a-z0-9]*$`)
)

// validate is the singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
	registerCustomValidators(validate)
}

// registerCustomValidators registers custom validation functions.
func registerCustomValidators(v *validator.Validate) {
	// CIDR notation validation.
	_ = v.RegisterValidation("cidr", func(fl validator.FieldLevel) bool {
		return cidr.IsValid(fl.Field().String())
	})

	// Azure location validation.
	_ = v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		return locationPattern.MatchString(fl.Field().String())
	})

	// NSG port range validation.
	_ = v.RegisterValidation("portrange", func(fl validator.FieldLevel) bool {
		return ports.IsValid(fl.Field().String())
	})
}

// Resource is the interface implemented by all property models.
type Resource interface {
	// ResourceType returns the ARM resource type.
	ResourceType() string
	// ValidateProps performs hard validation; a non-nil error means the
	// resource cannot be constructed.
	ValidateProps() error
	// ValidateARMStructure performs soft structural validation.
	ValidateARMStructure() validation.Result
}

// FieldError wraps a struct-tag validation failure with context.
type FieldError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

// Error returns the error message.
func (e FieldError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)",
		e.Field, e.Message, e.Value)
}

// WrapFieldErrors converts validator.ValidationErrors to a readable error.
func WrapFieldErrors(err error) error {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	if len(validationErrors) == 0 {
		return nil
	}

	// Return the first validation error for clarity.
	fe := validationErrors[0]
	return FieldError{
		Field:   fe.Field(),
		Tag:     fe.Tag(),
		Value:   fe.Value(),
		Message: formatFieldMessage(fe),
	}
}

// formatFieldMessage creates a human-readable validation message.
func formatFieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "cidr":
		return "must be a valid CIDR notation (e.g., 10.0.0.0/16)"
	case "location":
		return "must be a valid Azure location (lowercase alphanumeric)"
	case "portrange":
		return "must be a valid port range (*, a port, or start-end)"
	default:
		return fmt.Sprintf("failed validation '%s'", fe.Tag())
	}
}
