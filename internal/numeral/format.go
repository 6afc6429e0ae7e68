package numeral

import "strings"

// Format renders a canonical string as display text: the integer segment is
// grouped every three digits scanning right to left, sign and decimal
// segment pass through untouched. Stripping the separator from the result
// reproduces canonical exactly.
func Format(canonical string, sep rune) string {
	if canonical == "" {
		return ""
	}

	rest := canonical
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

	return sign + group(integer, sep) + tail
}

func group(digits string, sep rune) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// SeparatorCount reports how many group separators text contains.
func SeparatorCount(text string, sep rune) int {
	return strings.Count(text, string(sep))
}
