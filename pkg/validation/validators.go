package validation

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", NotBlank)
	_ = v.RegisterValidation("json_string_array", JSONStringArray)
	_ = v.RegisterValidation("json_improvements", JSONImprovements)
}

// NotBlank rejects strings that are empty after trimming whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// JSONStringArray accepts a string holding a JSON array of strings, e.g. `["Go","SQL"]`.
// Empty is allowed; combine with required when needed.
func JSONStringArray(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	var out []string
	return json.Unmarshal([]byte(val), &out) == nil
}

// JSONImprovements accepts a string holding a JSON array of objects.
func JSONImprovements(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	var out []map[string]any
	return json.Unmarshal([]byte(val), &out) == nil
}
