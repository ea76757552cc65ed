package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kisansathi/assistant/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("task_category", validateTaskCategory); err != nil {
		panic(fmt.Sprintf("failed to register task_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("interaction_type", validateInteractionType); err != nil {
		panic(fmt.Sprintf("failed to register interaction_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("date_ymd", validateDateYMD); err != nil {
		panic(fmt.Sprintf("failed to register date_ymd validator: %v", err))
	}
}

// validateTaskCategory validates that a string is a valid TaskCategory enum value
func validateTaskCategory(fl validator.FieldLevel) bool {
	return models.ValidTaskCategory(models.TaskCategory(fl.Field().String()))
}

// validateInteractionType validates that a string is a valid InteractionType enum value
func validateInteractionType(fl validator.FieldLevel) bool {
	return models.ValidInteractionType(models.InteractionType(fl.Field().String()))
}

// validateDateYMD validates that a string is a calendar date in YYYY-MM-DD form
func validateDateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateDate validates a YYYY-MM-DD date string value
func ValidateDate(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}

// ValidateInteractionType validates an InteractionType string value
func ValidateInteractionType(value string) error {
	if !models.ValidInteractionType(models.InteractionType(value)) {
		return fmt.Errorf("invalid type: %s (must be 'voice', 'text', or 'image')", value)
	}
	return nil
}
