package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/chronosync/chronosync/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func init() {
	Validate = validator.New()

	// Register custom validators for domain values
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		panic(fmt.Sprintf("failed to register calendar_date validator: %v", err))
	}
	if err := Validate.RegisterValidation("hex_color", validateHexColor); err != nil {
		panic(fmt.Sprintf("failed to register hex_color validator: %v", err))
	}
}

// validateCalendarDate validates that a string is a "YYYY-MM-DD" calendar day
func validateCalendarDate(fl validator.FieldLevel) bool {
	return ValidateDate(fl.Field().String()) == nil
}

// validateHexColor validates a "#RRGGBB" color value
func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRe.MatchString(fl.Field().String())
}

// ValidateDate validates a "YYYY-MM-DD" calendar-day string.
func ValidateDate(value string) error {
	if value == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}

// ValidateDuration validates an activity duration in minutes.
func ValidateDuration(minutes int) error {
	if minutes < models.MinActivityDuration {
		return fmt.Errorf("duration must be at least %d minute", models.MinActivityDuration)
	}
	return nil
}

// NormalizeCategoryName lowercases and trims a category name.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateCategoryName validates a normalized category name.
func ValidateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if len(name) > 50 {
		return fmt.Errorf("category name cannot exceed 50 characters")
	}
	return nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
