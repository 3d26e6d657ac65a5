// Package locale parses and formats numbers the way Brazilian users write them:
// comma as decimal separator, dot as thousands separator, "R$" currency prefix.
package locale

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the pt-BR message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.BrazilianPortuguese)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidNumber is returned when a string cannot be read as a number.
const ErrInvalidNumber = constError("invalid number")

// ParseNumber reads a user-typed number. It accepts "1234.5", "1234,5",
// "1.234,56", "1,234.56" and an optional "R$" prefix. Blank input is an error.
// After "R$" a lone dot followed by exactly three digits groups thousands, so
// "R$ 1.234" is 1234 while a bare "1.234" stays 1.234.
func ParseNumber(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	currency := strings.HasPrefix(clean, "R$")
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Whichever separator comes last is the decimal one.
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") > 1 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Count(clean, ".") > 1:
		// "1.234.567" only makes sense as thousands grouping.
		clean = strings.ReplaceAll(clean, ".", "")
	case currency && lastDot >= 0 && len(clean)-lastDot-1 == 3:
		clean = strings.Replace(clean, ".", "", 1)
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FormatDecimal formats v with the given precision and pt-BR separators.
// Example: FormatDecimal(1234.5, 2) returns "1.234,50".
func FormatDecimal(v float64, places int) string {
	rounded := Round(v, int32(places))
	return printer.Sprintf("%.*f", places, rounded)
}

// FormatInteger formats v rounded to a whole number with thousands separators.
func FormatInteger(v float64) string {
	return printer.Sprintf("%d", int64(Round(v, 0)))
}

// FormatCurrency formats v as Brazilian reais with two decimals.
// Example: FormatCurrency(12028.5) returns "R$ 12.028,50".
func FormatCurrency(v float64) string {
	return "R$ " + FormatDecimal(v, 2)
}

// FormatThousands formats v in thousands with a "k" suffix, as used in price ranges.
// Example: FormatThousands(14701.5) returns "15k".
func FormatThousands(v float64) string {
	return FormatInteger(v/1000) + "k"
}
