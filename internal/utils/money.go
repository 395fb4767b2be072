package utils

import (
	"errors"
	"fmt"
	"strings"
)

// Monetary values live as int64 amounts in the smallest currency unit
// (cents) everywhere inside the service layer; they cross the HTTP
// boundary as decimal strings ("30.00") so no client ever sees a float.
// These two functions are the only conversion points.

var ErrInvalidAmountFormat = errors.New("amount must be a decimal number with at most two fraction digits")

// FormatCents renders an amount in cents as a decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseCents parses a decimal string into cents. It rejects empty
// strings, stray characters, and more than two fraction digits; it does
// not enforce positivity, that is a business rule checked by services.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmountFormat
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmountFormat
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmountFormat
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmountFormat
		}
		d := int64(r - '0')
		if cents > (1<<63-1-d)/10 {
			return 0, ErrInvalidAmountFormat // overflow
		}
		cents = cents*10 + d
	}
	if cents > (1<<63-1)/100 {
		return 0, ErrInvalidAmountFormat // overflow
	}
	cents *= 100

	scale := int64(10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmountFormat
		}
		cents += int64(r-'0') * scale
		scale /= 10
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}
