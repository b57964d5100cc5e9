package mail

import (
	"strings"
	"testing"
)

func TestScreenAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   string
		wantErr string
	}{
		{
			name:  "valid address",
			email: "alice@example.com",
		},
		{
			name:  "valid address with plus tag",
			email: "alice+tracking@example.com",
		},
		{
			name:    "missing at sign",
			email:   "aliceexample.com",
			wantErr: "invalid email format",
		},
		{
			name:    "empty",
			email:   "",
			wantErr: "invalid email format",
		},
		{
			name:    "disposable domain",
			email:   "alice@mailinator.com",
			wantErr: "disposable",
		},
		{
			name:    "disposable domain subdomain",
			email:   "alice@mx.yopmail.com",
			wantErr: "disposable",
		},
		{
			name:    "disposable domain uppercase",
			email:   "alice@TEMPMAIL.COM",
			wantErr: "disposable",
		},
		{
			name:    "fake test local part",
			email:   "test123@example.com",
			wantErr: "suspicious",
		},
		{
			name:    "fake demo local part",
			email:   "demo@example.com",
			wantErr: "suspicious",
		},
		{
			name:    "fake admin local part uppercase",
			email:   "Admin42@example.com",
			wantErr: "suspicious",
		},
		{
			name:  "local part merely containing test",
			email: "contest@example.com",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ScreenAddress(tt.email)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ScreenAddress(%q) = %v, want nil", tt.email, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ScreenAddress(%q) = nil, want error containing %q", tt.email, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ScreenAddress(%q) = %q, want error containing %q", tt.email, err.Error(), tt.wantErr)
			}
		})
	}
}
