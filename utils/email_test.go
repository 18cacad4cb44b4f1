package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		variables map[string]string
		want      string
	}{
		{
			name:      "simple substitution",
			text:      "Dear {{name}}, welcome aboard.",
			variables: map[string]string{"name": "Amal"},
			want:      "Dear Amal, welcome aboard.",
		},
		{
			name:      "whitespace inside braces",
			text:      "Hello {{ name }}!",
			variables: map[string]string{"name": "Amal"},
			want:      "Hello Amal!",
		},
		{
			name:      "unknown placeholder left in place",
			text:      "Hello {{name}}, your code is {{code}}.",
			variables: map[string]string{"name": "Amal"},
			want:      "Hello Amal, your code is {{code}}.",
		},
		{
			name:      "values are escaped",
			text:      "Note: {{note}}",
			variables: map[string]string{"note": "<b>bold</b>"},
			want:      "Note: &lt;b&gt;bold&lt;/b&gt;",
		},
		{
			name:      "no placeholders",
			text:      "plain text",
			variables: map[string]string{"name": "unused"},
			want:      "plain text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTemplate(tt.text, tt.variables))
		})
	}
}

func TestTemplateVariables(t *testing.T) {
	subject := "Welcome, {{name}}"
	body := "Dear {{name}}, your partner id is {{partnerId}} and your rate is {{rate}}%."
	assert.Equal(t, []string{"name", "partnerId", "rate"}, TemplateVariables(subject, body))
	assert.Empty(t, TemplateVariables("no placeholders here"))
}
