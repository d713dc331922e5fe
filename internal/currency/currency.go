// Package currency converts and formats the two storefront currencies.
// Prices are persisted in USD; PHP exists only as an entry/display mode.
package currency

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

type Currency string

const (
	USD Currency = "USD"
	PHP Currency = "PHP"
)

// Canonical is the currency every stored price is expressed in.
const Canonical = USD

func (c Currency) Valid() bool {
	return c == USD || c == PHP
}

// Parse accepts a currency code in any case.
func Parse(code string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))

	return c, c.Valid()
}

// Convert moves amount from one currency to the other using rate, the number
// of PHP per USD. The rate is not validated: a zero rate on PHP->USD yields
// +Inf or NaN, matching plain float division.
func Convert(amount float64, from, to Currency, rate float64) float64 {
	if from == to {
		return amount
	}

	switch {
	case from == USD && to == PHP:
		return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).InexactFloat64()
	case from == PHP && to == USD:
		if rate == 0 {
			return amount / rate
		}
		return decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(rate)).InexactFloat64()
	}

	return amount
}

func SymbolFor(c Currency) string {
	if c == PHP {
		return "₱"
	}

	return "$"
}

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// ParseAmount strips everything but digits, '.' and '-' and reads the longest
// leading number, so "$1,234.50" is 1234.5 and "12.3.4" is 12.3. Anything
// without a leading number is 0.
func ParseAmount(text string) float64 {
	cleaned := nonNumeric.ReplaceAllString(text, "")

	match := numericPrefix.FindString(cleaned)
	if match == "" {
		return 0
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	return v
}

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatAmount renders v with exactly two decimals and no symbol, the shape
// price inputs hold ("1694.44").
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatMoney renders v for display, e.g. "₱1,694.44".
func FormatMoney(v float64, c Currency) string {
	ac := accounting.Accounting{Symbol: SymbolFor(c), Precision: 2}

	return ac.FormatMoney(Round2(v))
}
