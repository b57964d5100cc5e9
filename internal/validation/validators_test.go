package validation

import "testing"

func TestValidateDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid date", value: "2024-01-31", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "wrong layout", value: "31-01-2024", wantErr: true},
		{name: "not a date", value: "2024-02-30", wantErr: true},
		{name: "timestamp rejected", value: "2024-01-01T00:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateDate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	t.Parallel()

	if err := ValidateDuration(0); err == nil {
		t.Error("Expected error for zero duration")
	}
	if err := ValidateDuration(-5); err == nil {
		t.Error("Expected error for negative duration")
	}
	if err := ValidateDuration(1); err != nil {
		t.Errorf("Expected no error for 1 minute, got %v", err)
	}
}

func TestNormalizeCategoryName(t *testing.T) {
	t.Parallel()

	if got := NormalizeCategoryName("  Deep Work  "); got != "deep work" {
		t.Errorf("NormalizeCategoryName() = %q, want %q", got, "deep work")
	}
}

func TestValidateCategoryName(t *testing.T) {
	t.Parallel()

	if err := ValidateCategoryName(""); err == nil {
		t.Error("Expected error for empty name")
	}
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateCategoryName(string(long)); err == nil {
		t.Error("Expected error for overlong name")
	}
	if err := ValidateCategoryName("writing"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	if got := SanitizeText("  notes\x00 with control\x1b chars  "); got != "notes with control chars" {
		t.Errorf("SanitizeText() = %q", got)
	}
	if got := SanitizeText("line1\nline2\ttab"); got != "line1\nline2\ttab" {
		t.Errorf("SanitizeText() should keep newline and tab, got %q", got)
	}
}
