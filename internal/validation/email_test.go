package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
	assert.Equal(t, "alice@example.com", NormalizeEmail("ALICE@EXAMPLE.COM"))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "a@x.com", wantErr: false},
		{name: "valid with subdomain", email: "alice@mail.example.com", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at", email: "ax.com", wantErr: true},
		{name: "display name form", email: "Alice <a@x.com>", wantErr: true},
		{name: "spaces", email: "a @x.com", wantErr: true},
		{name: "too long", email: strings.Repeat("a", 250) + "@x.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("secret123"))
}

func TestValidateName(t *testing.T) {
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("n", 200)))
	assert.NoError(t, ValidateName("Alice"))
}
