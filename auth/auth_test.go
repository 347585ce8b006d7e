// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
)

func TestNewVoterToken(t *testing.T) {
	token := NewVoterToken()

	if len(token) != 32 {
		t.Errorf("NewVoterToken() length = %d, want 32", len(token))
	}
	// Verify it's valid hex
	for _, c := range token {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("NewVoterToken() contains invalid hex char: %c", c)
		}
	}

	// Two tokens should be different
	if NewVoterToken() == NewVoterToken() {
		t.Error("NewVoterToken() produced duplicate tokens (extremely unlikely)")
	}
}

func TestValidateAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		presented  string
		configured string
		wantErr    bool
	}{
		{"matching key", "super-secret", "super-secret", false},
		{"wrong key", "guess", "super-secret", true},
		{"empty presented key", "", "super-secret", true},
		{"no configured key rejects everything", "anything", "", true},
		{"both empty still rejected", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.presented, tt.configured)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAdminKey) {
					t.Errorf("ValidateAdminKey() error = %v, want ErrInvalidAdminKey", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAdminKey() error = %v, want nil", err)
			}
		})
	}
}
