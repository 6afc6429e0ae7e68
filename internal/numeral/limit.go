package numeral

import (
	"fmt"
	"strconv"
	"strings"
)

// Limit caps digit counts per segment. The textual form is
// "intDigits.decDigits" with either half optional: "10.2", "10", "10.",
// ".2". The zero Limit caps nothing.
type Limit struct {
	Int    int
	Dec    int
	HasInt bool
	HasDec bool
}

// ParseLimit parses the textual limit form. An empty string yields the zero
// Limit.
func ParseLimit(s string) (Limit, error) {
	if s == "" {
		return Limit{}, nil
	}

	intPart := s
	decPart := ""
	hasDot := false
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		hasDot = true
		intPart = s[:dot]
		decPart = s[dot+1:]
		if strings.IndexByte(decPart, '.') >= 0 {
			return Limit{}, fmt.Errorf("invalid limit %q", s)
		}
	}

	var limit Limit
	if intPart != "" {
		n, err := strconv.Atoi(intPart)
		if err != nil || n < 0 {
			return Limit{}, fmt.Errorf("invalid limit %q", s)
		}
		limit.Int = n
		limit.HasInt = true
	}
	if decPart != "" {
		n, err := strconv.Atoi(decPart)
		if err != nil || n < 0 {
			return Limit{}, fmt.Errorf("invalid limit %q", s)
		}
		limit.Dec = n
		limit.HasDec = true
	}
	if !limit.HasInt && !limit.HasDec && hasDot {
		return Limit{}, fmt.Errorf("invalid limit %q", s)
	}
	return limit, nil
}

func (l Limit) String() string {
	switch {
	case l.HasInt && l.HasDec:
		return fmt.Sprintf("%d.%d", l.Int, l.Dec)
	case l.HasInt:
		return strconv.Itoa(l.Int)
	case l.HasDec:
		return "." + strconv.Itoa(l.Dec)
	default:
		return ""
	}
}
