// Package validation provides the issue/result model and the
// named-property validators used by resource configuration checks.
//
// Two tiers cooperate here:
//  1. Hard failures are raised by callers as catalog-backed errors
//     (see pkg/errcatalog) and abort construction.
//  2. Soft findings are accumulated through a Builder into an immutable
//     Result that callers inspect, log, or escalate post-hoc.
//
// Everything in this package is synchronous and free of shared state;
// a Builder belongs to exactly one validation pass.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Severity classifies a validation issue.
type Severity string

const (
	// SeverityError marks issues that make the result invalid.
	SeverityError Severity = "error"
	// SeverityWarning marks suspicious but representable configuration.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks advisory findings.
	SeverityInfo Severity = "info"
)

// Issue is one detected problem. Immutable once created.
type Issue struct {
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	Details      string   `json:"details,omitempty"`
	Suggestion   string   `json:"suggestion,omitempty"`
	PropertyPath string   `json:"propertyPath,omitempty"`
	ResourceID   string   `json:"resourceId,omitempty"`
}

// Result is an immutable aggregate of issues produced by Builder.Build.
// Counts always equal the tally of Issues by severity, and Valid always
// equals ErrorCount == 0; warnings and info never block validity.
type Result struct {
	Valid        bool    `json:"valid"`
	Issues       []Issue `json:"issues,omitempty"`
	ErrorCount   int     `json:"errorCount"`
	WarningCount int     `json:"warningCount"`
	InfoCount    int     `json:"infoCount"`
}

// Err returns nil for a valid result, otherwise a single error
// summarizing every error-severity issue.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}

	messages := make([]string, 0, r.ErrorCount)
	for _, issue := range r.Issues {
		if issue.Severity != SeverityError {
			continue
		}
		if issue.PropertyPath != "" {
			messages = append(messages, fmt.Sprintf("%s: %s", issue.PropertyPath, issue.Message))
			continue
		}
		messages = append(messages, issue.Message)
	}
	return errors.New(strings.Join(messages, "; "))
}

// IssueOption sets an optional field on an issue being added.
type IssueOption func(*Issue)

// WithDetails attaches extra context to an issue.
func WithDetails(details string) IssueOption {
	return func(i *Issue) { i.Details = details }
}

// WithSuggestion attaches a remediation hint to an issue.
func WithSuggestion(suggestion string) IssueOption {
	return func(i *Issue) { i.Suggestion = suggestion }
}

// WithPropertyPath records which property triggered an issue.
func WithPropertyPath(path string) IssueOption {
	return func(i *Issue) { i.PropertyPath = path }
}

// WithResourceID records which resource triggered an issue.
func WithResourceID(id string) IssueOption {
	return func(i *Issue) { i.ResourceID = id }
}

// Builder accumulates issues during a single validation pass.
// Methods chain; the zero value is ready to use. Not safe for
// concurrent use - each pass owns its own builder.
type Builder struct {
	issues []Issue
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddError appends an error-severity issue.
func (b *Builder) AddError(message string, opts ...IssueOption) *Builder {
	return b.add(SeverityError, message, opts)
}

// AddWarning appends a warning-severity issue.
func (b *Builder) AddWarning(message string, opts ...IssueOption) *Builder {
	return b.add(SeverityWarning, message, opts)
}

// AddInfo appends an info-severity issue.
func (b *Builder) AddInfo(message string, opts ...IssueOption) *Builder {
	return b.add(SeverityInfo, message, opts)
}

func (b *Builder) add(severity Severity, message string, opts []IssueOption) *Builder {
	issue := Issue{Severity: severity, Message: message}
	for _, opt := range opts {
		opt(&issue)
	}
	b.issues = append(b.issues, issue)
	return b
}

// Merge appends all issues from a sub-result in order. Used to combine
// independently validated sub-values, e.g. each element of a CIDR array.
func (b *Builder) Merge(other Result) *Builder {
	b.issues = append(b.issues, other.Issues...)
	return b
}

// Build freezes the issues added so far into a Result. The builder is
// not consumed: further Add calls followed by another Build reflect the
// full accumulated set. The issue slice is copied so a later Add never
// aliases into an already-built Result.
func (b *Builder) Build() Result {
	issues := make([]Issue, len(b.issues))
	copy(issues, b.issues)

	result := Result{Issues: issues}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityInfo:
			result.InfoCount++
		}
	}
	result.Valid = result.ErrorCount == 0
	return result
}
