// Package display turns ledger state into text for people: currency and
// number formatting, amount-text parsing, search highlighting and list
// rendering. Nothing here is stored.
package display

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "DZD"

// Formatter formats amounts in one currency.
type Formatter struct {
	code string
}

func NewFormatter(code string) Formatter {
	if code == "" {
		code = DefaultCurrency
	}
	return Formatter{code: strings.ToUpper(code)}
}

// Currency returns the ISO code amounts are shown in.
func (f Formatter) Currency() string { return f.code }

// Format renders amount with the currency's symbol, separators and
// fraction digits.
func (f Formatter) Format(amount float64) string {
	cur := money.GetCurrency(f.code)
	fraction := 2
	if cur != nil {
		fraction = cur.Fraction
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, f.code).Display()
}

// FormatNumber groups the integer part of n in thousands: 1234567 becomes
// "1,234,567". Fractions are dropped.
func FormatNumber(n float64) string {
	s := strconv.FormatInt(int64(math.Trunc(n)), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

var nonAmount = regexp.MustCompile(`[^\d.]`)

// ParseAmount reads an amount the way it is typed into the entry fields:
// separators, currency symbols and spaces are ignored. Text that still
// isn't a number reads as 0, which every amount check rejects.
func ParseAmount(text string) float64 {
	cleaned := nonAmount.ReplaceAllString(text, "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
