package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		expectError bool
	}{
		{"Valid simple", "leo", false},
		{"Valid with separators", "ivan.petrov_77", false},
		{"Too short", "ab", true},
		{"Illegal characters", "иван", true},
		{"Spaces", "bad name", true},
		{"Reserved route name", "create", true},
		{"Reserved route name mixed case", "Profile", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("auth@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("two@@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correcthorse1"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))
	assert.Error(t, ValidatePassword("1234567890"))
}
