// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Usernames that collide with routing or operational paths.
var reservedUsernames = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"create":  {},
	"group":   {},
	"posts":   {},
	"profile": {},
	"health":  {},
	"metrics": {},
	"ws":      {},
}

// ValidateUsername validates username format and reserved names.
// The username appears in /profile/<username>/ URLs, so the character
// set is restricted accordingly.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, underscores, dots, and hyphens")
	}
	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}
	return nil
}

// ValidateEmail performs a shallow format check; deliverability is not verified.
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}
