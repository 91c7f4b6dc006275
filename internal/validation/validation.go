// Package validation provides declarative per-field input validation.
// Checks are collected before a handler executes its work; all failures
// are reported together as a {field, message} list.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError describes a single failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Checker accumulates field errors across a request body.
type Checker struct {
	errs []FieldError
}

// New creates an empty Checker.
func New() *Checker {
	return &Checker{}
}

// Require fails when the trimmed value is empty.
func (v *Checker) Require(field, value, message string) *Checker {
	if strings.TrimSpace(value) == "" {
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
	return v
}

// Email fails when the value is not a plausible email address.
func (v *Checker) Email(field, value, message string) *Checker {
	if !emailPattern.MatchString(value) {
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
	return v
}

// MinLength fails when the value is shorter than min bytes.
func (v *Checker) MinLength(field, value string, min int, message string) *Checker {
	if len(value) < min {
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
	return v
}

// Password applies the registration password policy to the field.
func (v *Checker) Password(field, value string) *Checker {
	if err := ValidatePassword(value); err != nil {
		v.errs = append(v.errs, FieldError{Field: field, Message: err.Error()})
	}
	return v
}

// Errors returns the collected failures, nil when everything passed.
func (v *Checker) Errors() []FieldError {
	return v.errs
}

// SplitSkills turns a comma-separated skills string into a trimmed,
// empty-element-free slice ("js, css" -> ["js" "css"]).
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("choose a password with at least 6 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}
