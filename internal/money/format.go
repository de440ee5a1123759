package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is matched by every parse failure.
var ErrMalformedAmount = errors.New("malformed amount")

// MalformedAmountError describes why a display string could not be parsed.
type MalformedAmountError struct {
	Input  string
	Reason string
}

func (e *MalformedAmountError) Error() string {
	return fmt.Sprintf("malformed amount %q: %s", e.Input, e.Reason)
}

func (e *MalformedAmountError) Unwrap() error { return ErrMalformedAmount }

// Format controls how amounts are rendered for display. Separators are fixed
// runes so output never depends on the host locale.
type Format struct {
	Symbol   string
	Grouping rune // 0 disables grouping
	Decimal  rune
	Places   int32 // minor-unit digits shown
}

// Default is rupiah style: "Rp 1.234.567".
var Default = Format{Symbol: "Rp", Grouping: '.', Decimal: ',', Places: 0}

// FormatCurrency renders d with the default format.
func FormatCurrency(d decimal.Decimal) string {
	return Default.Amount(d)
}

// ParseCurrency parses s with the default format.
func ParseCurrency(s string) (decimal.Decimal, error) {
	return Default.Parse(s)
}

// Round rounds half away from zero to the given number of minor-unit places.
// It is the only rounding applied to computed amounts, at the display boundary.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Amount renders d as grouped digits, e.g. 1234567.5 -> "1.234.568" with the
// default format.
func (f Format) Amount(d decimal.Decimal) string {
	d = Round(d, f.Places)
	neg := d.IsNegative()
	intPart, frac, _ := strings.Cut(d.Abs().StringFixed(f.Places), ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(group(intPart, f.Grouping))
	if frac != "" {
		b.WriteRune(f.Decimal)
		b.WriteString(frac)
	}
	return b.String()
}

// WithSymbol renders d with the currency symbol in front, e.g. "Rp 25.000".
func (f Format) WithSymbol(d decimal.Decimal) string {
	s := f.Amount(d)
	if f.Symbol == "" {
		return s
	}
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-" + f.Symbol + " " + rest
	}
	return f.Symbol + " " + s
}

// Parse converts a display string back to an amount. Grouping separators are
// stripped wherever they appear; an optional leading symbol is ignored.
func (f Format) Parse(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if f.Symbol != "" {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, f.Symbol))
	}
	if trimmed == "" {
		return decimal.Zero, &MalformedAmountError{Input: s, Reason: "empty"}
	}

	var b strings.Builder
	seenDecimal := false
	digits := 0
	for _, r := range trimmed {
		switch {
		case f.Grouping != 0 && r == f.Grouping:
			continue
		case r == f.Decimal:
			if seenDecimal {
				return decimal.Zero, &MalformedAmountError{Input: s, Reason: "more than one decimal separator"}
			}
			seenDecimal = true
			b.WriteByte('.')
		case r >= '0' && r <= '9':
			digits++
			b.WriteRune(r)
		default:
			return decimal.Zero, &MalformedAmountError{Input: s, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	if digits == 0 {
		return decimal.Zero, &MalformedAmountError{Input: s, Reason: "no digits"}
	}

	canonical := strings.TrimSuffix(b.String(), ".")
	if strings.HasPrefix(canonical, ".") {
		canonical = "0" + canonical
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, &MalformedAmountError{Input: s, Reason: err.Error()}
	}
	return d, nil
}

func group(digits string, sep rune) string {
	if sep == 0 || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
