package errcatalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioaiello/armcheck/pkg/validation"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ctx      map[string]string
		want     string
	}{
		{
			name:     "single token",
			template: "Value {x} is invalid",
			ctx:      map[string]string{"x": "foo"},
			want:     "Value foo is invalid",
		},
		{
			name:     "missing key left literal",
			template: "Missing {y}",
			ctx:      map[string]string{},
			want:     "Missing {y}",
		},
		{
			name:     "nil context",
			template: "Missing {y}",
			ctx:      nil,
			want:     "Missing {y}",
		},
		{
			name:     "multiple tokens",
			template: "Subnet {a} outside {b}",
			ctx:      map[string]string{"a": "10.0.1.0/24", "b": "10.0.0.0/16"},
			want:     "Subnet 10.0.1.0/24 outside 10.0.0.0/16",
		},
		{
			name:     "repeated token",
			template: "{x} and {x}",
			ctx:      map[string]string{"x": "v"},
			want:     "v and v",
		},
		{
			name:     "empty braces left alone",
			template: "literal {} braces",
			ctx:      map[string]string{"": "nope"},
			want:     "literal {} braces",
		},
		{
			name:     "unterminated brace",
			template: "dangling {open",
			ctx:      map[string]string{"open": "nope"},
			want:     "dangling {open",
		},
		{
			name:     "non-identifier token",
			template: "keep {a b} as-is",
			ctx:      map[string]string{"a b": "nope"},
			want:     "keep {a b} as-is",
		},
		{
			name:     "no tokens",
			template: "plain text",
			ctx:      map[string]string{"x": "v"},
			want:     "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.template, tt.ctx))
		})
	}
}

func TestNewInterpolatesMessageAndSuggestion(t *testing.T) {
	ve := New("NET001", map[string]string{
		"subnetCidr": "192.168.1.0/24",
		"vnetCidr":   "10.0.0.0/16",
	})

	assert.Equal(t, "Subnet CIDR 192.168.1.0/24 is not within VNet range 10.0.0.0/16", ve.Message)
	assert.Contains(t, ve.Suggestion, "10.0.0.0/16")
	assert.Equal(t, "NET001", ve.Code)
	assert.Equal(t, CategoryNetworking, ve.Category)
	assert.Equal(t, validation.SeverityError, ve.Severity)
}

func TestNewPanicsOnUnknownCode(t *testing.T) {
	assert.Panics(t, func() {
		New("XXX999", nil)
	})
}

func TestNewLeavesMissingContextVisible(t *testing.T) {
	ve := New("NET001", map[string]string{"subnetCidr": "192.168.1.0/24"})
	assert.Equal(t, "Subnet CIDR 192.168.1.0/24 is not within VNet range {vnetCidr}", ve.Message)
}

func TestErrorString(t *testing.T) {
	ve := New("NET003", map[string]string{"value": "bogus", "property": "addressSpace"})
	assert.Equal(t, "NET003: Value bogus of addressSpace is not valid IPv4 CIDR notation", ve.Error())
}

func TestFormat(t *testing.T) {
	ve := New("NET001", map[string]string{
		"subnetCidr": "192.168.1.0/24",
		"vnetCidr":   "10.0.0.0/16",
	})
	report := ve.Format()

	lines := strings.Split(report, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "ValidationError [NET001]: Subnet outside virtual network range", lines[0])
	assert.Equal(t, "Subnet CIDR 192.168.1.0/24 is not within VNet range 10.0.0.0/16", lines[1])

	assert.Contains(t, report, "Context:\n")
	// Context keys are emitted in sorted order for determinism.
	assert.Less(t,
		strings.Index(report, "subnetCidr: 192.168.1.0/24"),
		strings.Index(report, "vnetCidr: 10.0.0.0/16"),
	)
	assert.Contains(t, report, "Suggestion:\n")
	assert.Contains(t, report, "Documentation:\n")
	assert.Contains(t, report, "Example:\n")
}

func TestFormatWithoutContext(t *testing.T) {
	ve := New("ARM001", nil)
	report := ve.Format()
	assert.NotContains(t, report, "Context:")
	assert.Contains(t, report, "Suggestion:")
}

func TestMarshalJSONFieldNames(t *testing.T) {
	ve := New("NET001", map[string]string{
		"subnetCidr": "192.168.1.0/24",
		"vnetCidr":   "10.0.0.0/16",
	})

	data, err := json.Marshal(ve)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, field := range []string{
		"code", "category", "title", "message", "description",
		"suggestion", "relatedDocs", "severity", "context", "example",
	} {
		assert.Contains(t, decoded, field, "stable serialization field %s", field)
	}

	assert.Equal(t, "NET001", decoded["code"])
	assert.Equal(t, "error", decoded["severity"])

	ctx, ok := decoded["context"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "192.168.1.0/24", ctx["subnetCidr"])
}
