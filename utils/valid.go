// utils/validation.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	// Trim spaces
	input = strings.TrimSpace(input)

	// HTML escape
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	// Remove any potential script tags
	scriptRegex := regexp.MustCompile(`<script[^>]*>.*?</script>`)
	input = scriptRegex.ReplaceAllString(input, "")

	return input
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	// Basic email validation regex
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}

	return email, nil
}

// SanitizePhone sanitizes and validates a phone number
func SanitizePhone(phone string) (string, error) {
	// If phone is empty, return empty string (phone is optional)
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}

	// Remove all non-numeric characters except +
	phone = regexp.MustCompile(`[^\d+]`).ReplaceAllString(phone, "")

	// Ensure phone number starts with +
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	// Basic validation for international phone number
	if len(phone) < 8 || len(phone) > 15 {
		return "", errors.New("invalid phone number length")
	}

	return phone, nil
}

// SanitizeStringArray sanitizes an array of strings
func SanitizeStringArray(inputs []string) []string {
	sanitized := make([]string, len(inputs))
	for i, input := range inputs {
		sanitized[i] = SanitizeInput(input)
	}
	return sanitized
}

// SanitizeDetails sanitizes the string values of a free-form details record,
// leaving nested records and non-string values untouched
func SanitizeDetails(input map[string]interface{}) map[string]interface{} {
	if input == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(input))
	for k, v := range input {
		switch value := v.(type) {
		case string:
			sanitized[k] = SanitizeInput(value)
		case map[string]interface{}:
			sanitized[k] = SanitizeDetails(value)
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}
