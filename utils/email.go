// utils/email.go
package utils

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/gomail.v2"
)

var templateVarPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// RenderTemplate substitutes {{name}} placeholders with the supplied values.
// Values are sanitized before substitution so template output cannot smuggle
// markup. Unknown placeholders are left in place so a preview makes the gap
// visible.
func RenderTemplate(text string, variables map[string]string) string {
	return templateVarPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := templateVarPattern.FindStringSubmatch(match)[1]
		if value, ok := variables[name]; ok {
			return SanitizeInput(value)
		}
		return match
	})
}

// TemplateVariables lists the distinct placeholder names referenced in the
// given texts, sorted for stable display in the admin console
func TemplateVariables(texts ...string) []string {
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, match := range templateVarPattern.FindAllStringSubmatch(text, -1) {
			seen[match[1]] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SendEmail sends a plain-text email using the configured SMTP server
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// SendTemplatedEmail renders the subject and body with the given variables
// and sends the result
func SendTemplatedEmail(to, subject, body string, variables map[string]string) error {
	return SendEmail(to, RenderTemplate(subject, variables), RenderTemplate(body, variables))
}
