package domain

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeChoice maps user input such as "high" or " HIGH " onto the
// canonical spelling in choices. An empty input yields fallback.
func NormalizeChoice(choices []string, input, fallback string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return fallback, nil
	}
	v := cases.Title(language.English).String(strings.ToLower(input))
	if !slices.Contains(choices, v) {
		return "", fmt.Errorf("invalid value %q: must be one of %s", input, strings.Join(choices, ", "))
	}
	return v, nil
}

// IsBlank reports whether s has no visible content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
