package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		jwtSecret   string
		dbPassword  string
		port        string
		expectError bool
	}{
		{"Development with defaults", "development", "your-secret-key-change-in-production", "password", "8000", false},
		{"Missing port", "development", "secret", "password", "", true},
		{"Missing JWT secret", "development", "", "password", "8000", true},
		{"Production with default JWT secret", "production", "your-secret-key-change-in-production", "strong-password", "8000", true},
		{"Production with short JWT secret", "production", "short", "strong-password", "8000", true},
		{"Production with default DB password", "prod", "secure-secret-at-least-32-chars-long", "password", "8000", true},
		{"Production fully configured", "production", "secure-secret-at-least-32-chars-long", "strong-password", "8000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:        tt.env,
				JWTSecret:  tt.jwtSecret,
				DBPassword: tt.dbPassword,
				Port:       tt.port,
				DBSSLMode:  "require",
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
