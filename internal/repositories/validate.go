package repositories

import "strings"

// ValidationResult reports which required fields are missing.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	MissingFields []string `json:"missing_fields"`
}

// ValidateRequired checks that every name in required is present in data.
// A field is missing when the key is absent, the value is nil, or the value
// is a string that is empty after trimming whitespace.
func ValidateRequired(data map[string]any, required []string) ValidationResult {
	missing := []string{}
	for _, name := range required {
		v, ok := data[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, name)
		}
	}
	return ValidationResult{Valid: len(missing) == 0, MissingFields: missing}
}
