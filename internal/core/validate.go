package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// MaxDescriptionLength bounds the description field, measured in bytes.
const MaxDescriptionLength = 500

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateCreateInput checks every field of a creation request independently
// and returns all violations as human-readable reasons. An empty slice means
// the request is acceptable; callers must not write anything otherwise.
func ValidateCreateInput(in CreateInput) []string {
	var details []string

	if _, err := ParseDecimalToMinorUnits(in.Amount); err != nil {
		if errors.Is(err, ErrAmountTooLarge) {
			details = append(details, "amount seems unreasonably large")
		} else {
			details = append(details, "amount must be a positive number")
		}
	}

	if strings.TrimSpace(in.Category) == "" {
		details = append(details, "category is required")
	}

	if strings.TrimSpace(in.Description) == "" {
		details = append(details, "description is required")
	} else if len(in.Description) > MaxDescriptionLength {
		details = append(details, "description must be 500 characters or less")
	}

	if in.Date == "" {
		details = append(details, "date is required")
	} else if !ValidDate(in.Date) {
		details = append(details, "date must be a valid YYYY-MM-DD")
	}

	return details
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
// The pattern check alone would accept 2024-02-30; time.Parse rejects it.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
