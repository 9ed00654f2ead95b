package subshare

import (
	"math"
	"strconv"
	"strings"

	"subshare-bot/internal/pkg/errs"
)

// SlotKey identifies one seat on an account. Keys are opaque strings; most
// are numeric ("1".."4") but nothing may assume that.
type SlotKey string

func NewSlotKey(s string) (SlotKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.Validationf("slot key must not be empty")
	}
	return SlotKey(s), nil
}

func (k SlotKey) String() string {
	return string(k)
}

// Less orders slot keys numerically when both sides parse as integers and
// lexicographically otherwise, independent of storage order.
func (k SlotKey) Less(other SlotKey) bool {
	a, aerr := strconv.Atoi(string(k))
	b, berr := strconv.Atoi(string(other))
	if aerr == nil && berr == nil {
		return a < b
	}
	return string(k) < string(other)
}

// Price is an amount of money in cents. Catalog prices and the frozen quotes
// inside subscriptions both use it; the JSON form is a plain decimal number.
type Price int64

// ParsePrice converts a decimal string like "9.99" into cents. At most two
// fraction digits are accepted; negative amounts are rejected.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, errs.Validationf("price must be a non-negative number, got %q", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	cents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errs.Validationf("price must be a non-negative number, got %q", s)
	}
	if cents > math.MaxInt64/100 {
		return 0, errs.Validationf("price %q is out of range", s)
	}
	cents *= 100
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, errs.Validationf("price must be a non-negative number, got %q", s)
		}
		cents += int64(d) * 10
	case 2:
		d, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, errs.Validationf("price must be a non-negative number, got %q", s)
		}
		cents += int64(d)
	default:
		return 0, errs.Validationf("price %q has more than two fraction digits", s)
	}
	return Price(cents), nil
}

func (p Price) String() string {
	sign := ""
	cents := int64(p)
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// MarshalJSON emits a decimal number, keeping the persisted layout
// compatible with catalogs written as {"30": 9.99}.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseDurationDays validates a duration entered as text.
func ParseDurationDays(s string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || days <= 0 {
		return 0, errs.Validationf("duration must be a positive number of days, got %q", s)
	}
	return days, nil
}
