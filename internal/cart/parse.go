package cart

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	errNotANumber     = errors.New("not a number")
	errNegativeAmount = errors.New("negative amount")
)

// ParseQuantity coerces raw into an integer the way a lenient form field is
// read: surrounding whitespace and an optional sign are accepted, then the
// leading run of digits is used and anything after it ignored ("2.7" is 2,
// "3 pcs" is 3). Input without leading digits is not a number.
func ParseQuantity(raw string) (int, error) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, errNotANumber
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return 0, errNotANumber
	}
	return n, nil
}

// ParsePrice reads a non-negative decimal unit price.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errNotANumber
	}
	if price.IsNegative() {
		return decimal.Zero, errNegativeAmount
	}
	return price, nil
}
