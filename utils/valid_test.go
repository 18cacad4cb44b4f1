package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Acme Design Studio", want: "Acme Design Studio"},
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "escapes markup", input: "<b>bold</b>", want: "&lt;b&gt;bold&lt;/b&gt;"},
		{name: "strips control characters", input: "a\x00b\x1fc", want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.input))
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Partner@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "partner@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)
}

func TestSanitizePhone(t *testing.T) {
	phone, err := SanitizePhone("961 70 123 456")
	require.NoError(t, err)
	assert.Equal(t, "+96170123456", phone)

	// Optional field
	phone, err = SanitizePhone("  ")
	require.NoError(t, err)
	assert.Empty(t, phone)

	_, err = SanitizePhone("12")
	assert.Error(t, err)
}

func TestSanitizeDetails(t *testing.T) {
	input := map[string]interface{}{
		"portfolio": "https://example.com?q=<x>",
		"years":     7,
		"nested": map[string]interface{}{
			"note": " <i>italic</i> ",
		},
	}

	got := SanitizeDetails(input)
	assert.Equal(t, "https://example.com?q=&lt;x&gt;", got["portfolio"])
	assert.Equal(t, 7, got["years"])
	nested, ok := got["nested"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "&lt;i&gt;italic&lt;/i&gt;", nested["note"])

	assert.Nil(t, SanitizeDetails(nil))
}
