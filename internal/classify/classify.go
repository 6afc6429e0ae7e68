// Package classify decides what an uncontrolled edit to a numeric field
// meant. The host delivers only the before/after display strings and caret
// positions; an ordered table of predicate+transform rules disambiguates
// typed digits, separator insertions and deletions, decimal point moves and
// garbage, each with its own text, value and caret policy. Rules are
// evaluated first match wins and the table is total: every edit lands on
// exactly one Accept, Reject or Violation.
package classify

import (
	"math/big"
	"strings"

	"github.com/unkn0wn-root/numfield/internal/numeral"
)

type OutcomeKind int

const (
	// Accepted carries new display text, caret and optionally a value to
	// commit.
	Accepted OutcomeKind = iota
	// Rejected restores the previous caret and changes nothing else.
	Rejected
	// Violated reports a configured limit breach and changes nothing.
	Violated
)

type ViolationKind string

const (
	ViolationMax          ViolationKind = "max"
	ViolationMin          ViolationKind = "min"
	ViolationIntegerLimit ViolationKind = "limit.integer"
	ViolationDecimalLimit ViolationKind = "limit.decimal"
)

// Violation describes a limit breach: the configured bound and the offending
// actual (a digit count for the limit kinds, the canonical value for
// max/min).
type Violation struct {
	Kind   ViolationKind
	Bound  string
	Actual string
}

// Input is one edit event: the previously displayed state and the raw state
// the field now contains.
type Input struct {
	PrevText  string
	PrevCaret int
	NextText  string
	NextCaret int
}

// Outcome is the classification result. Text, Caret and the commit fields
// are meaningful for Accepted; Caret alone for Rejected; Violation for
// Violated. Commit false on an Accepted outcome means the change was
// cosmetic and the owner must not be notified. Rule names the matched table
// entry for diagnostics.
type Outcome struct {
	Kind      OutcomeKind
	Rule      string
	Text      string
	Caret     int
	Commit    bool
	Value     numeral.Value
	Violation Violation
}

type editState struct {
	in        Input
	opts      numeral.Options
	sep       rune
	prevRunes []rune
	nextRunes []rune
	canonical string
}

// Classify maps one edit event to its outcome. It is pure: all state lives
// in the input and the field options.
func Classify(in Input, opts numeral.Options) Outcome {
	st := &editState{
		in:        in,
		opts:      opts,
		sep:       opts.Sep(),
		prevRunes: []rune(in.PrevText),
		nextRunes: []rune(in.NextText),
		canonical: numeral.Strip(in.NextText, opts.Sep()),
	}
	for _, r := range rules {
		if out, ok := r.apply(st); ok {
			out.Rule = r.name
			if out.Kind == Accepted {
				out.Caret = clampCaret(out.Caret, out.Text)
			}
			return out
		}
	}
	// The default rule is total; not reached.
	return reject(st)
}

func accept(text string, caret int) Outcome {
	return Outcome{Kind: Accepted, Text: text, Caret: caret}
}

// acceptCommit builds an Accepted outcome committing the normalized value of
// canonical. When canonical does not normalize to a parseable numeral the
// edit is rejected instead so display text never diverges from a numeral.
func (st *editState) acceptCommit(text string, caret int, canonical string) Outcome {
	normalized := numeral.Normalize(canonical)
	value, ok := numeral.ParseValue(normalized, st.opts.Precise)
	if !ok {
		return reject(st)
	}
	out := accept(text, caret)
	out.Commit = true
	out.Value = value
	return out
}

func reject(st *editState) Outcome {
	return Outcome{Kind: Rejected, Caret: st.in.PrevCaret}
}

func violation(kind ViolationKind, bound, actual string) Outcome {
	return Outcome{
		Kind:      Violated,
		Violation: Violation{Kind: kind, Bound: bound, Actual: actual},
	}
}

func clampCaret(caret int, text string) int {
	if caret < 0 {
		return 0
	}
	if n := len([]rune(text)); caret > n {
		return n
	}
	return caret
}

// canonicalRat parses the canonical form of the next text as an exact
// rational. Partial mid-edit shapes ("-", two dots in flight) return false
// and skip bounds checks.
func (st *editState) canonicalRat() (*big.Rat, string, bool) {
	if !numeral.IsValid(st.canonical) {
		return nil, "", false
	}
	normalized := numeral.Normalize(st.canonical)
	rat, ok := new(big.Rat).SetString(normalized)
	if !ok {
		return nil, "", false
	}
	return rat, normalized, true
}

// stripPoints removes decimal points and separators, leaving sign and
// digits.
func (st *editState) stripPoints(text string) string {
	return strings.ReplaceAll(numeral.Strip(text, st.sep), ".", "")
}

func runeIndex(runes []rune, r rune) int {
	for i, c := range runes {
		if c == r {
			return i
		}
	}
	return -1
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
