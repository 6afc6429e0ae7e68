package numeral

import (
	"math/big"
	"strings"
)

// Normalize collapses redundant leading zeros and drops a bare trailing
// decimal point, producing the canonical form reported to the field owner.
// Trailing zeros after the decimal point are preserved ("2.10" stays
// "2.10"); "002" becomes "2", "00" becomes "0", "-003" becomes "-3".
func Normalize(canonical string) string {
	if canonical == "" {
		return ""
	}

	rest := strings.TrimSuffix(canonical, ".")
	sign := ""
	if strings.HasPrefix(rest, "-") {
		sign = "-"
		rest = rest[1:]
	}

	integer := rest
	tail := ""
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		integer = rest[:dot]
		tail = rest[dot:]
	}

	integer = strings.TrimLeft(integer, "0")
	if integer == "" {
		integer = "0"
	}
	return sign + integer + tail
}

// Value is a committed field value: either null or a normalized numeral. It
// keeps both the exact digit string and a rational so bounds comparisons
// never lose precision; precise only selects what Export hands to the owner.
type Value struct {
	canonical string
	rat       *big.Rat
	precise   bool
}

// Null is the "no value" Value.
func Null() Value {
	return Value{}
}

// ParseValue builds a Value from a normalized canonical string. It reports
// false when canonical is not a complete numeral.
func ParseValue(canonical string, precise bool) (Value, bool) {
	if canonical == "" || !IsValid(canonical) {
		return Value{}, false
	}
	rat, ok := new(big.Rat).SetString(canonical)
	if !ok {
		return Value{}, false
	}
	return Value{canonical: canonical, rat: rat, precise: precise}, true
}

func (v Value) IsNull() bool {
	return v.rat == nil
}

// String returns the exact canonical digit string, or "" for null.
func (v Value) String() string {
	return v.canonical
}

// Rat returns the exact rational, or nil for null. Callers must not mutate
// the result.
func (v Value) Rat() *big.Rat {
	return v.rat
}

// Float returns the nearest float64. Only meaningful for non-null values.
func (v Value) Float() float64 {
	if v.rat == nil {
		return 0
	}
	f, _ := v.rat.Float64()
	return f
}

// Export returns what the owner sees: nil for null, the exact digit string
// in precise mode, a float64 otherwise.
func (v Value) Export() any {
	if v.IsNull() {
		return nil
	}
	if v.precise {
		return v.canonical
	}
	return v.Float()
}

// Equal compares committed values at the value level: two nulls are equal,
// otherwise the normalized canonical strings must match. Trailing decimal
// zeros are significant because precise mode reports them.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() == o.IsNull()
	}
	return v.canonical == o.canonical
}
