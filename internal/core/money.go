package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in Mexican pesos kept as centavos. On the wire it is a
// plain peso number (1500, 350.5) so stored snapshots stay readable.
type Money struct {
	Cents int64
}

var ErrInvalidAmount = errors.New("invalid amount")

func Pesos(p int64) Money { return Money{Cents: p * 100} }

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) IsZero() bool { return m.Cents == 0 }

// Pesos returns the amount as a float for display and encoding only.
func (m Money) Pesos() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) MarshalJSON() ([]byte, error) {
	if m.Cents%100 == 0 {
		return strconv.AppendInt(nil, m.Cents/100, 10), nil
	}
	return strconv.AppendFloat(nil, m.Pesos(), 'f', 2, 64), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		m.Cents = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrInvalidAmount
	}
	m.Cents = int64(math.Round(f * 100))
	return nil
}

// String renders the amount the es-MX way: "$1,500.00", "-$250.50".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	frac := cents % 100
	return sign + "$" + b.String() + "." + string(rune('0'+frac/10)) + string(rune('0'+frac%10))
}

// ParseDecimalToCents converts a positive es-MX decimal string to centavos.
//
// The dot is the only decimal separator. Commas group thousands and must
// split the integer part in groups of three. The third decimal is rounded
// half-up.
//
//	ParseDecimalToCents("12.34")    -> 1234, nil
//	ParseDecimalToCents("1,250.50") -> 125050, nil
//	ParseDecimalToCents("12,34")    -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	whole, _, _ := strings.Cut(s, ".")
	if strings.Contains(whole, ",") {
		if !validGrouping(whole) {
			return 0, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
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
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseMoney is ParseDecimalToCents wrapped into Money.
func ParseMoney(s string) (Money, error) {
	c, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: c}, nil
}

// validGrouping reports whether a comma grouped integer such as "18,000"
// or "1,234,567" has one to three leading digits and then groups of three.
func validGrouping(whole string) bool {
	groups := strings.Split(whole, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
