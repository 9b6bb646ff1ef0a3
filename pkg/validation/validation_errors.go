package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"Email":          "Email",
	"Password":       "Password",
	"ResumeText":     "Resume text",
	"JobDescription": "Job description",
	"MatchScore":     "Match score",
	"MatchingSkills": "Matching skills",
	"MissingSkills":  "Missing skills",
	"Improvements":   "Improvements",
	"JobTitle":       "Job title",
	"Suggestion":     "Suggestion",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"Invalid request body."}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into one response string.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required.", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters.", label, param)
		}
		return fmt.Sprintf("%s must be at least %s.", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters.", label, param)
		}
		return fmt.Sprintf("%s must be at most %s.", label, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s.", label, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s.", label, param)
	case "json_string_array":
		return fmt.Sprintf("%s must be a JSON array of strings.", label)
	case "json_improvements":
		return fmt.Sprintf("%s must be a JSON array of objects.", label)
	default:
		return fmt.Sprintf("%s is invalid (%s).", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
