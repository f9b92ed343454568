// ABOUTME: Request body shape validation for API handlers
// ABOUTME: Accumulates per-field messages in the 422 error envelope shape

package api

import (
	"net/mail"
	"strings"
)

// maxStringField caps name, email, and title lengths.
const maxStringField = 255

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 6

// fieldErrors collects validation messages keyed by input field.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

func (e fieldErrors) empty() bool {
	return len(e) == 0
}

// requireString validates a required bounded string field.
func (e fieldErrors) requireString(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, "The "+field+" field is required.")
		return
	}
	if len(value) > maxStringField {
		e.add(field, "The "+field+" may not be greater than 255 characters.")
	}
}

// requireEmail validates a required well-formed email field.
func (e fieldErrors) requireEmail(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, "The "+field+" field is required.")
		return
	}
	if len(value) > maxStringField {
		e.add(field, "The "+field+" may not be greater than 255 characters.")
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		e.add(field, "The "+field+" must be a valid email address.")
	}
}

// requirePassword validates the password and its confirmation together.
func (e fieldErrors) requirePassword(password, confirmation string) {
	if password == "" {
		e.add("password", "The password field is required.")
		return
	}
	if len(password) < minPasswordLength {
		e.add("password", "The password must be at least 6 characters.")
	}
	if password != confirmation {
		e.add("password", "The password confirmation does not match.")
	}
}
