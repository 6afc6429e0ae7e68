package numeral

import (
	"fmt"
	"math/big"
)

// Options is the numeric policy of one field.
type Options struct {
	// Separator is the group separator rune; zero means DefaultSeparator.
	Separator rune
	// Limit caps integer/decimal digit counts.
	Limit Limit
	// Max and Min bound the value when non-nil.
	Max *big.Rat
	Min *big.Rat
	// Precise switches committed values to exact digit strings instead of
	// float64, avoiding precision loss on long numerals.
	Precise bool
}

// Sep returns the effective separator.
func (o Options) Sep() rune {
	if o.Separator == 0 {
		return DefaultSeparator
	}
	return o.Separator
}

// ParseBound parses a numeric bound such as "1000" or "-0.5".
func ParseBound(s string) (*big.Rat, error) {
	if s == "" {
		return nil, nil
	}
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid bound %q", s)
	}
	return rat, nil
}

// BoundString renders a bound the way it was configured: exact decimal when
// the rational terminates, the rational form otherwise.
func BoundString(r *big.Rat) string {
	if r == nil {
		return ""
	}
	if r.IsInt() {
		return r.Num().String()
	}
	s := r.FloatString(12)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
