// Package core holds the domain model: ledger entities, validation,
// and the pure aggregation functions computed over them. It performs
// no I/O; the storage and transport layers depend on it, never the
// other way around.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer minor units of the record's currency.
// All bookkeeping is done in minor units; floats appear only at the
// display edge.
type Money int64

// Currency codes accepted on transactions.
const (
	CurrencyVND = "VND"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"

	DefaultCurrency = CurrencyVND
)

// ValidCurrency reports whether code is one of the supported currencies.
func ValidCurrency(code string) bool {
	switch code {
	case CurrencyVND, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// ParseAmount converts a decimal string to minor units with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and
// comma (12,34) separators. Signs are rejected: direction is carried by
// the transaction type, never by a negative amount.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewValidationError("amount", "empty")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, NewValidationError("amount", "signed amounts not allowed")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, NewValidationError("amount", "malformed decimal")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, NewValidationError("amount", "not a number")
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, NewValidationError("amount", "out of range")
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, NewValidationError("amount", "out of range")
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	cents := iv*100 + frac
	if cents <= 0 {
		return 0, NewValidationError("amount", "must be positive")
	}
	return Money(cents), nil
}

// Units returns the major-unit value as a float64 for display only.
func (m Money) Units() float64 {
	return float64(m) / 100.0
}
