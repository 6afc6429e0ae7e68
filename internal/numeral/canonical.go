// Package numeral implements the unseparated canonical form of a numeric
// field: stripping display formatting, grouping it back, digit-limit
// truncation and value normalization. Canonical strings may be partial while
// an edit is in flight ("-", "0.", ""), so most helpers tolerate shapes that
// are not yet parseable numbers.
package numeral

import (
	"regexp"
	"strings"
)

// DefaultSeparator is the group separator used when none is configured.
const DefaultSeparator = ','

var numberRx = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// Strip removes every occurrence of the separator, yielding the canonical
// string underneath a display string.
func Strip(text string, sep rune) string {
	if !strings.ContainsRune(text, sep) {
		return text
	}
	return strings.ReplaceAll(text, string(sep), "")
}

// IsValid reports whether canonical parses as an optionally signed integer
// or decimal numeral. Partial forms handled by dedicated classifier rules
// ("-", ".", "-.") are not valid here.
func IsValid(canonical string) bool {
	return numberRx.MatchString(canonical)
}

// IntegerDigits counts the digits of the integer segment, sign excluded.
func IntegerDigits(canonical string) int {
	c := strings.TrimPrefix(canonical, "-")
	if dot := strings.IndexByte(c, '.'); dot >= 0 {
		c = c[:dot]
	}
	return countDigits(c)
}

// DecimalDigits counts the digits after the first decimal point.
func DecimalDigits(canonical string) int {
	dot := strings.IndexByte(canonical, '.')
	if dot < 0 {
		return 0
	}
	return countDigits(canonical[dot+1:])
}

// TruncateDecimals cuts the decimal segment down to the configured decimal
// digit limit. The integer segment is never touched here: integer overflow
// is a hard rejection handled by the classifier before any text lands.
func TruncateDecimals(canonical string, limit Limit) string {
	if !limit.HasDec {
		return canonical
	}
	dot := strings.IndexByte(canonical, '.')
	if dot < 0 {
		return canonical
	}
	dec := canonical[dot+1:]
	if len(dec) <= limit.Dec {
		return canonical
	}
	if limit.Dec == 0 {
		return canonical[:dot]
	}
	return canonical[:dot+1+limit.Dec]
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
