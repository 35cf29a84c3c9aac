// Package core holds the ledger domain: money encoding, the expense entity,
// and creation-request validation. Amounts live as integer minor units
// (cents/paise) everywhere inside the service; the decimal form exists only
// at the wire boundary.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MaxAmountMajorUnits is the sanity bound on a single expense: anything
// above 10,000,000 major units is rejected as implausible input.
const MaxAmountMajorUnits = 10_000_000

const maxAmountMinorUnits = MaxAmountMajorUnits * 100

// ParseDecimalToMinorUnits converts a decimal amount string to minor units.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal digit, so 12.345 becomes
// 1235 and 12.344 becomes 1234. The result is always a positive minor-unit
// count. Returns ErrInvalidAmount for anything that does not parse as a
// positive finite decimal, and ErrAmountTooLarge above MaxAmountMajorUnits.
func ParseDecimalToMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Signs are rejected outright: the ledger only records positive amounts.
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if iv > MaxAmountMajorUnits {
		return 0, ErrAmountTooLarge
	}
	// First two fractional digits, then half-up on the third.
	var fracMinor int64
	if len(fracPart) > 0 {
		fracMinor = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracMinor += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracMinor++
			}
		}
	}
	minor := iv*100 + fracMinor
	if minor <= 0 {
		return 0, ErrInvalidAmount
	}
	if minor > maxAmountMinorUnits {
		return 0, ErrAmountTooLarge
	}
	return minor, nil
}

// FormatMinorUnits renders a minor-unit amount as a plain decimal string
// with exactly two fractional digits and no grouping, e.g. 15050 -> "150.50".
func FormatMinorUnits(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
