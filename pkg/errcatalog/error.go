package errcatalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/flavioaiello/armcheck/pkg/validation"
)

// ValidationError is a hard validation failure resolved from the
// catalog. It is created at the point of failure and returned or
// propagated immediately; nothing mutates it afterwards.
type ValidationError struct {
	Code        string
	Category    Category
	Title       string
	Message     string
	Description string
	Example     string
	Suggestion  string
	RelatedDocs []string
	Severity    validation.Severity
	Context     map[string]string
}

// New resolves a catalog code into a ValidationError, interpolating the
// message and suggestion templates from ctx. Looking up an unknown code
// is a programming error, not a validation error, and panics.
func New(code string, ctx map[string]string) *ValidationError {
	def, ok := Get(code)
	if !ok {
		panic(fmt.Sprintf("errcatalog: unknown error code %q", code))
	}

	return &ValidationError{
		Code:        def.Code,
		Category:    def.Category,
		Title:       def.Title,
		Message:     Interpolate(def.Message, ctx),
		Description: def.Description,
		Example:     def.Example,
		Suggestion:  Interpolate(def.Suggestion, ctx),
		RelatedDocs: def.RelatedDocs,
		Severity:    def.Severity,
		Context:     ctx,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Format renders a deterministic multi-line report: header, message,
// context (sorted by key), suggestion, documentation links, and the
// example verbatim.
func (e *ValidationError) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "ValidationError [%s]: %s\n", e.Code, e.Title)
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	if len(e.Context) > 0 {
		sb.WriteString("\nContext:\n")
		keys := make([]string, 0, len(e.Context))
		for key := range e.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&sb, "  %s: %s\n", key, e.Context[key])
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\nSuggestion:\n")
		fmt.Fprintf(&sb, "  %s\n", e.Suggestion)
	}

	if len(e.RelatedDocs) > 0 {
		sb.WriteString("\nDocumentation:\n")
		for _, doc := range e.RelatedDocs {
			fmt.Fprintf(&sb, "  %s\n", doc)
		}
	}

	if e.Example != "" {
		sb.WriteString("\nExample:\n")
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&sb, "  %s\n", line)
		}
	}

	return sb.String()
}

// MarshalJSON emits the stable serialization form consumed by external
// tooling. Field names are part of the compatibility contract.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code        string              `json:"code"`
		Category    Category            `json:"category"`
		Title       string              `json:"title"`
		Message     string              `json:"message"`
		Description string              `json:"description"`
		Example     string              `json:"example,omitempty"`
		Suggestion  string              `json:"suggestion"`
		RelatedDocs []string            `json:"relatedDocs,omitempty"`
		Severity    validation.Severity `json:"severity"`
		Context     map[string]string   `json:"context,omitempty"`
	}{
		Code:        e.Code,
		Category:    e.Category,
		Title:       e.Title,
		Message:     e.Message,
		Description: e.Description,
		Example:     e.Example,
		Suggestion:  e.Suggestion,
		RelatedDocs: e.RelatedDocs,
		Severity:    e.Severity,
		Context:     e.Context,
	})
}

// Interpolate replaces every {identifier} token in the template with
// the matching context value. Identifiers are ASCII letters, digits,
// and underscores. A token whose key is absent from ctx is left as the
// literal {key} text, which keeps partially-supplied context visible
// instead of erroring.
func Interpolate(template string, ctx map[string]string) string {
	var sb strings.Builder
	sb.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != '{' {
			sb.WriteByte(template[i])
			i++
			continue
		}

		end := i + 1
		for end < len(template) && isIdentChar(template[end]) {
			end++
		}

		if end >= len(template) || template[end] != '}' || end == i+1 {
			// Not a well-formed token; emit the brace and move on.
			sb.WriteByte(template[i])
			i++
			continue
		}

		key := template[i+1 : end]
		if value, ok := ctx[key]; ok {
			sb.WriteString(value)
		} else {
			sb.WriteString(template[i : end+1])
		}
		i = end + 1
	}

	return sb.String()
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
