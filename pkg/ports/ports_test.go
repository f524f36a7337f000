package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		spec  string
		valid bool
	}{
		{"*", true},
		{"0", true},
		{"443", true},
		{"65535", true},
		{"1000-2000", true},
		{"80-80", true},
		{"0-65535", true},
		{"", false},
		{"65536", false},
		{"-1", false},
		{"2000-1000", false},
		{"80-", false},
		{"-80", false},
		{"80-90-100", false},
		{"http", false},
		{"80,443", false},
		{"**", false},
		{"+80", false},
		{"1-+9", false},
		{"017", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(tt.spec))
		})
	}
}

func TestParse(t *testing.T) {
	r, ok := Parse("443")
	require.True(t, ok)
	assert.Equal(t, PortRange{Start: 443, End: 443}, r)

	r, ok = Parse("1000-2000")
	require.True(t, ok)
	assert.Equal(t, PortRange{Start: 1000, End: 2000}, r)

	r, ok = Parse("*")
	require.True(t, ok)
	assert.True(t, r.Wildcard)
	assert.Equal(t, MinPort, r.Start)
	assert.Equal(t, MaxPort, r.End)

	_, ok = Parse("2000-1000")
	assert.False(t, ok)
}

func TestIsAll(t *testing.T) {
	wildcard, ok := Parse("*")
	require.True(t, ok)
	assert.True(t, wildcard.IsAll())

	full, ok := Parse("0-65535")
	require.True(t, ok)
	assert.True(t, full.IsAll())

	single, ok := Parse("443")
	require.True(t, ok)
	assert.False(t, single.IsAll())
}
