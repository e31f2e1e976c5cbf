// Package validation holds the request shapes and the pure validators run by
// every handler before the service layer is invoked. A validator never
// returns an error value; it accumulates human-readable messages for every
// independently failing field, with required checks reported before range
// checks for the same field.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

func result(errs []string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// requireString appends a "required" error when value is empty, otherwise
// checks the length bounds. Returns false when the required check failed so
// callers can skip dependent checks for the same field.
func requireString(errs *[]string, field, value string, min, max int) bool {
	if strings.TrimSpace(value) == "" {
		*errs = append(*errs, field+" is required")
		return false
	}
	checkLength(errs, field, value, min, max)
	return true
}

func checkLength(errs *[]string, field, value string, min, max int) {
	if len(value) < min {
		*errs = append(*errs, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	if max > 0 && len(value) > max {
		*errs = append(*errs, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
}

func checkEmail(errs *[]string, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		*errs = append(*errs, field+" is required")
		return false
	}
	if !emailRe.MatchString(value) {
		*errs = append(*errs, field+" must be a valid email address")
		return false
	}
	return true
}

// checkPassword enforces the minimum complexity: at least 5 characters with an
// uppercase letter, a lowercase letter and a digit.
func checkPassword(errs *[]string, field, value string) {
	if value == "" {
		*errs = append(*errs, field+" is required")
		return
	}
	if len(value) < 5 {
		*errs = append(*errs, field+" must be at least 5 characters")
	}
	var upper, lower, digit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		*errs = append(*errs, field+" must contain an uppercase letter, a lowercase letter and a digit")
	}
}

// checkTags enforces the shared tag bounds: at most 20 entries of at most 50
// characters, none empty.
func checkTags(errs *[]string, field string, tags []string) {
	if len(tags) > 20 {
		*errs = append(*errs, field+" must contain at most 20 entries")
	}
	for i, t := range tags {
		if strings.TrimSpace(t) == "" {
			*errs = append(*errs, fmt.Sprintf("%s[%d] must not be empty", field, i))
			continue
		}
		if len(t) > 50 {
			*errs = append(*errs, fmt.Sprintf("%s[%d] must be at most 50 characters", field, i))
		}
	}
}

func checkEnum(errs *[]string, field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	*errs = append(*errs, field+" must be one of: "+strings.Join(allowed, ", "))
}
