package services

import (
	"errors"
	"testing"

	"github.com/you/investorportal/domain"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"already E.164", "+15551234567", "+15551234567", false},
		{"bare NANP ten digits", "5551234567", "+15551234567", false},
		{"NANP with country code", "15551234567", "+15551234567", false},
		{"formatted US number", "(555) 123-4567", "+15551234567", false},
		{"dots and spaces", "+1 555.123.4567", "+15551234567", false},
		{"international", "+442071838750", "+442071838750", false},
		{"empty", "", "", true},
		{"letters", "call-me-maybe", "", true},
		{"too short", "+1234", "", true},
		{"leading zero country code", "+0123456789", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidPhone) {
					t.Fatalf("expected ErrInvalidPhone, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Ada@Example.com", "ada@example.com", false},
		{"  ada@example.com ", "ada@example.com", false},
		{"not-an-email", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeEmail(tt.input)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidEmail) {
				t.Fatalf("NormalizeEmail(%q): expected ErrInvalidEmail, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeEmail(%q): unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
