package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/flavioaiello/armcheck/pkg/cidr"
)

// Default bounds applied by the named-property validators.
const (
	DefaultMinNameLength = 1
	DefaultMaxNameLength = 64
	DefaultMaxTags       = 50
	MaxTagKeyLength      = 512
	MaxTagValueLength    = 256
)

// ValidateResourceName checks a resource name against length bounds and
// an optional pattern. An empty or blank name short-circuits: once the
// name is missing there is nothing meaningful to check against length
// or pattern. Length and pattern violations on a present name are both
// reported.
func ValidateResourceName(name, resourceType string, minLength, maxLength int, pattern *regexp.Regexp) Result {
	builder := NewBuilder()

	if strings.TrimSpace(name) == "" {
		builder.AddError(
			fmt.Sprintf("%s name must not be empty", resourceType),
			WithPropertyPath("name"),
			WithSuggestion(fmt.Sprintf("Provide a non-empty name for the %s", resourceType)),
		)
		return builder.Build()
	}

	if len(name) < minLength {
		builder.AddError(
			fmt.Sprintf("%s name %q is shorter than the minimum length %d", resourceType, name, minLength),
			WithPropertyPath("name"),
		)
	}
	if len(name) > maxLength {
		builder.AddError(
			fmt.Sprintf("%s name %q exceeds the maximum length %d", resourceType, name, maxLength),
			WithPropertyPath("name"),
			WithDetails(fmt.Sprintf("actual length: %d", len(name))),
		)
	}
	if pattern != nil && !pattern.MatchString(name) {
		builder.AddError(
			fmt.Sprintf("%s name %q does not match the required pattern %s", resourceType, name, pattern.String()),
			WithPropertyPath("name"),
		)
	}

	return builder.Build()
}

// ValidateLocation checks that a location is present when required.
// Azure region strings are not checked against a known-region list.
func ValidateLocation(location string, required bool) Result {
	builder := NewBuilder()

	if required && strings.TrimSpace(location) == "" {
		builder.AddError(
			"location must not be empty",
			WithPropertyPath("location"),
			WithSuggestion("Set an Azure region, e.g. westeurope"),
		)
	}

	return builder.Build()
}

// ValidateTags checks the tag count and per-tag key/value constraints.
// All violations across all tags are collected, not short-circuited.
func ValidateTags(tags map[string]string, maxTags int) Result {
	builder := NewBuilder()

	if len(tags) > maxTags {
		builder.AddError(
			fmt.Sprintf("resource has %d tags, exceeding the maximum of %d", len(tags), maxTags),
			WithPropertyPath("tags"),
		)
	}

	for key, value := range tags {
		if strings.TrimSpace(key) == "" {
			builder.AddError(
				"tag key must not be empty",
				WithPropertyPath("tags"),
			)
		}
		if len(key) > MaxTagKeyLength {
			builder.AddError(
				fmt.Sprintf("tag key %q exceeds the maximum length %d", key, MaxTagKeyLength),
				WithPropertyPath(fmt.Sprintf("tags[%s]", key)),
			)
		}
		if len(value) > MaxTagValueLength {
			builder.AddError(
				fmt.Sprintf("value of tag %q exceeds the maximum length %d", key, MaxTagValueLength),
				WithPropertyPath(fmt.Sprintf("tags[%s]", key)),
			)
		}
	}

	return builder.Build()
}

// ValidateCIDR checks a single CIDR string.
func ValidateCIDR(value, propertyName string) Result {
	builder := NewBuilder()

	if strings.TrimSpace(value) == "" {
		builder.AddError(
			fmt.Sprintf("%s must not be empty", propertyName),
			WithPropertyPath(propertyName),
		)
		return builder.Build()
	}

	if !cidr.IsValid(value) {
		builder.AddError(
			fmt.Sprintf("%s value %q is not valid CIDR notation", propertyName, value),
			WithPropertyPath(propertyName),
			WithSuggestion("Use IPv4 CIDR notation, e.g. 10.0.0.0/16"),
		)
	}

	return builder.Build()
}

// ValidateCIDRArray checks element count and every element of a CIDR
// array. Element errors carry an indexed property path, so a short
// array with an invalid element reports both the count error and the
// format error.
func ValidateCIDRArray(cidrs []string, propertyName string, minCount int) Result {
	builder := NewBuilder()

	if len(cidrs) == 0 && minCount > 0 {
		builder.AddError(
			fmt.Sprintf("%s must not be empty", propertyName),
			WithPropertyPath(propertyName),
		)
	} else if len(cidrs) < minCount {
		builder.AddError(
			fmt.Sprintf("%s has %d entries, at least %d required", propertyName, len(cidrs), minCount),
			WithPropertyPath(propertyName),
		)
	}

	for i, value := range cidrs {
		builder.Merge(ValidateCIDR(value, fmt.Sprintf("%s[%d]", propertyName, i)))
	}

	return builder.Build()
}

// ValidateRequired checks presence only: nil (including typed nil
// pointers, slices, and maps) fails; a present empty string or zero
// does not.
func ValidateRequired(value interface{}, propertyName string) Result {
	builder := NewBuilder()

	if isNil(value) {
		builder.AddError(
			fmt.Sprintf("%s is required", propertyName),
			WithPropertyPath(propertyName),
		)
	}

	return builder.Build()
}

// isNil reports whether value is nil or a typed nil.
func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// ValidatePattern checks a value against a pattern. Absence is not
// validated here - pair with ValidateRequired when presence matters.
func ValidatePattern(value, propertyName string, pattern *regexp.Regexp, description string) Result {
	builder := NewBuilder()

	if value == "" {
		return builder.Build()
	}

	if !pattern.MatchString(value) {
		message := fmt.Sprintf("%s value %q does not match the required pattern %s", propertyName, value, pattern.String())
		opts := []IssueOption{WithPropertyPath(propertyName)}
		if description != "" {
			opts = append(opts, WithSuggestion(description))
		}
		builder.AddError(message, opts...)
	}

	return builder.Build()
}

// ValidateRange checks a numeric value against inclusive bounds. A nil
// value is not validated - pair with ValidateRequired when presence
// matters.
func ValidateRange(value *int, propertyName string, min, max int) Result {
	builder := NewBuilder()

	if value == nil {
		return builder.Build()
	}

	if *value < min || *value > max {
		builder.AddError(
			fmt.Sprintf("%s value %d is outside the allowed range %d-%d", propertyName, *value, min, max),
			WithPropertyPath(propertyName),
		)
	}

	return builder.Build()
}
