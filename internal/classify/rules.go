package classify

import (
	"strconv"
	"strings"

	"github.com/unkn0wn-root/numfield/internal/numeral"
)

type rule struct {
	name  string
	apply func(*editState) (Outcome, bool)
}

// Order is load-bearing: limit checks run before the partial-form rules, the
// structural rules (dot moves, separator churn) before the reformat default.
var rules = []rule{
	{"clear", ruleClear},
	{"integer-limit", ruleIntegerLimit},
	{"decimal-limit", ruleDecimalLimit},
	{"max", ruleMax},
	{"min", ruleMin},
	{"lone-minus", ruleLoneMinus},
	{"lone-dot", ruleLoneDot},
	{"minus-dot", ruleMinusDot},
	{"zero-dot", ruleZeroDot},
	{"append-dot", ruleAppendDot},
	{"drop-trailing-dot", ruleDropTrailingDot},
	{"relocate-dot", ruleRelocateDot},
	{"delete-dot", ruleDeleteDot},
	{"toggle-fraction-zero", ruleToggleFractionZero},
	{"truncate-to-dot", ruleTruncateToDot},
	{"edit-fraction", ruleEditFraction},
	{"insert-separator", ruleInsertSeparator},
	{"delete-separator", ruleDeleteSeparator},
	{"restore-integer-zero", ruleRestoreIntegerZero},
	{"reformat", ruleReformat},
}

func ruleClear(st *editState) (Outcome, bool) {
	if st.in.NextText != "" {
		return Outcome{}, false
	}
	out := accept("", 0)
	out.Commit = true
	out.Value = numeral.Null()
	return out, true
}

func ruleIntegerLimit(st *editState) (Outcome, bool) {
	if !st.opts.Limit.HasInt {
		return Outcome{}, false
	}
	n := numeral.IntegerDigits(st.canonical)
	if n <= st.opts.Limit.Int {
		return Outcome{}, false
	}
	return violation(
		ViolationIntegerLimit,
		strconv.Itoa(st.opts.Limit.Int),
		strconv.Itoa(n),
	), true
}

func ruleDecimalLimit(st *editState) (Outcome, bool) {
	if !st.opts.Limit.HasDec {
		return Outcome{}, false
	}
	n := numeral.DecimalDigits(st.canonical)
	if n <= st.opts.Limit.Dec {
		return Outcome{}, false
	}
	return violation(
		ViolationDecimalLimit,
		strconv.Itoa(st.opts.Limit.Dec),
		strconv.Itoa(n),
	), true
}

func ruleMax(st *editState) (Outcome, bool) {
	if st.opts.Max == nil {
		return Outcome{}, false
	}
	rat, normalized, ok := st.canonicalRat()
	if !ok || rat.Cmp(st.opts.Max) <= 0 {
		return Outcome{}, false
	}
	return violation(ViolationMax, numeral.BoundString(st.opts.Max), normalized), true
}

func ruleMin(st *editState) (Outcome, bool) {
	if st.opts.Min == nil {
		return Outcome{}, false
	}
	rat, normalized, ok := st.canonicalRat()
	if !ok || rat.Cmp(st.opts.Min) >= 0 {
		return Outcome{}, false
	}
	return violation(ViolationMin, numeral.BoundString(st.opts.Min), normalized), true
}

// A lone minus stays typeable; no value is reported so the previously
// committed value goes stale on purpose.
func ruleLoneMinus(st *editState) (Outcome, bool) {
	if st.in.NextText != "-" {
		return Outcome{}, false
	}
	return accept("-", 1), true
}

func ruleLoneDot(st *editState) (Outcome, bool) {
	if st.in.NextText != "." {
		return Outcome{}, false
	}
	return st.acceptCommit("0.", 2, "0"), true
}

func ruleMinusDot(st *editState) (Outcome, bool) {
	if st.in.NextText != "-." {
		return Outcome{}, false
	}
	return st.acceptCommit("-0.", 3, "0"), true
}

func ruleZeroDot(st *editState) (Outcome, bool) {
	if st.in.NextText != "0." {
		return Outcome{}, false
	}
	return st.acceptCommit("0.", 2, "0"), true
}

// Dot typed at the end of a dotless number: keep it, report nothing yet.
func ruleAppendDot(st *editState) (Outcome, bool) {
	if strings.ContainsRune(st.in.PrevText, '.') {
		return Outcome{}, false
	}
	if st.in.NextText != st.in.PrevText+"." {
		return Outcome{}, false
	}
	return accept(st.in.NextText, len(st.nextRunes)), true
}

// Trailing dot deleted: cosmetic, the value did not change.
func ruleDropTrailingDot(st *editState) (Outcome, bool) {
	if st.in.PrevText != st.in.NextText+"." {
		return Outcome{}, false
	}
	return accept(st.in.NextText, len(st.nextRunes)), true
}

// A dot typed while the digit sequence is unchanged relocates the decimal
// point to the caret.
func ruleRelocateDot(st *editState) (Outcome, bool) {
	if len(st.nextRunes) != len(st.prevRunes)+1 {
		return Outcome{}, false
	}
	caret := st.in.NextCaret
	if caret < 1 || caret > len(st.nextRunes) || st.nextRunes[caret-1] != '.' {
		return Outcome{}, false
	}
	stripDots := func(s string) string { return strings.ReplaceAll(s, ".", "") }
	if stripDots(st.in.NextText) != stripDots(st.in.PrevText) {
		return Outcome{}, false
	}

	if strings.Contains(st.in.NextText, "..") {
		// Typed against the existing dot: keep the text, park the caret
		// right after the dot that is already there.
		dot := runeIndex(st.prevRunes, '.')
		return accept(st.in.PrevText, dot+1), true
	}

	canonical := st.stripPoints(string(st.nextRunes[:caret])) +
		"." +
		st.stripPoints(string(st.nextRunes[caret:]))
	if strings.HasPrefix(canonical, "-.") {
		canonical = "-0" + canonical[1:]
	} else if strings.HasPrefix(canonical, ".") {
		canonical = "0" + canonical
	}

	text := numeral.Format(canonical, st.sep)
	newDot := runeIndex([]rune(text), '.')
	return st.acceptCommit(text, newDot+1, canonical), true
}

// The decimal point itself was deleted; integer and fraction digits merge.
func ruleDeleteDot(st *editState) (Outcome, bool) {
	if len(st.nextRunes) != len(st.prevRunes)-1 {
		return Outcome{}, false
	}
	if !strings.ContainsRune(st.in.PrevText, '.') ||
		strings.ContainsRune(st.in.NextText, '.') {
		return Outcome{}, false
	}
	if strings.Replace(st.in.PrevText, ".", "", 1) != st.in.NextText {
		return Outcome{}, false
	}

	prevCanonical := numeral.Strip(st.in.PrevText, st.sep)
	mergedDec := numeral.DecimalDigits(prevCanonical)
	prevInt := numeral.IntegerDigits(prevCanonical)

	text := numeral.Format(st.canonical, st.sep)
	caret := st.in.NextCaret
	// Merging the fraction into the integer segment can push a fresh
	// separator in front of the merge point.
	if mergedDec%3 != 0 && prevInt%3 == 0 {
		caret++
	}
	return st.acceptCommit(text, caret, st.canonical), true
}

// Trailing fractional zeros toggle without a commit so "2.10" stays
// typeable and deletable even though the value never changes.
func ruleToggleFractionZero(st *editState) (Outcome, bool) {
	next := st.in.NextText
	if !strings.ContainsRune(next, '.') || !strings.HasSuffix(next, "0") {
		return Outcome{}, false
	}
	if next != st.in.PrevText+"0" && st.in.PrevText != next+"0" {
		return Outcome{}, false
	}
	return accept(next, st.in.NextCaret), true
}

// Fraction digits deleted back to the dot: cosmetic truncation.
func ruleTruncateToDot(st *editState) (Outcome, bool) {
	if !strings.HasSuffix(st.in.NextText, ".") {
		return Outcome{}, false
	}
	if !strings.HasPrefix(st.in.PrevText, st.in.NextText) {
		return Outcome{}, false
	}
	return accept(st.in.NextText, st.in.NextCaret), true
}

// An in-place edit of the fraction: the integer segment (and therefore the
// grouping) is untouched, so the raw text can stand as-is. Malformed
// characters here are silently rejected, deliberately without a structured
// notification.
func ruleEditFraction(st *editState) (Outcome, bool) {
	prevDot := strings.IndexByte(st.in.PrevText, '.')
	nextDot := strings.IndexByte(st.in.NextText, '.')
	if prevDot < 0 || nextDot < 0 {
		return Outcome{}, false
	}
	if st.in.PrevText[:prevDot] != st.in.NextText[:nextDot] {
		return Outcome{}, false
	}
	if !allDigits(st.in.NextText[nextDot+1:]) {
		return reject(st), true
	}
	return st.acceptCommit(st.in.NextText, st.in.NextCaret, st.canonical), true
}

// The user typed the separator character; the host shows it but it carries
// no information. Drop it and step the caret back over it.
func ruleInsertSeparator(st *editState) (Outcome, bool) {
	if len(st.nextRunes) != len(st.prevRunes)+1 {
		return Outcome{}, false
	}
	if numeral.SeparatorCount(st.in.NextText, st.sep) !=
		numeral.SeparatorCount(st.in.PrevText, st.sep)+1 {
		return Outcome{}, false
	}
	if st.canonical != numeral.Strip(st.in.PrevText, st.sep) {
		return Outcome{}, false
	}
	return accept(st.in.PrevText, st.in.NextCaret-1), true
}

// Deleting a separator deletes the digit before it; the separator itself is
// formatting, not content.
func ruleDeleteSeparator(st *editState) (Outcome, bool) {
	if len(st.nextRunes) != len(st.prevRunes)-1 {
		return Outcome{}, false
	}
	if numeral.SeparatorCount(st.in.NextText, st.sep) !=
		numeral.SeparatorCount(st.in.PrevText, st.sep)-1 {
		return Outcome{}, false
	}
	if st.canonical != numeral.Strip(st.in.PrevText, st.sep) {
		return Outcome{}, false
	}
	caret := st.in.NextCaret
	if caret < 1 {
		return Outcome{}, false
	}

	raw := string(st.prevRunes[:caret-1]) + string(st.prevRunes[caret:])
	canonical := numeral.Strip(raw, st.sep)
	if !numeral.IsValid(canonical) && canonical != "" {
		return reject(st), true
	}
	if canonical == "" {
		out := accept("", 0)
		out.Commit = true
		out.Value = numeral.Null()
		return out, true
	}

	text := numeral.Format(canonical, st.sep)
	newCaret := caret - 1
	if numeral.SeparatorCount(text, st.sep) <
		numeral.SeparatorCount(st.in.PrevText, st.sep) {
		newCaret = caret - 2
	}
	return st.acceptCommit(text, newCaret, canonical), true
}

// The whole integer segment went away in front of a fraction; re-seed it
// with a zero.
func ruleRestoreIntegerZero(st *editState) (Outcome, bool) {
	if !strings.HasPrefix(st.in.NextText, ".") {
		return Outcome{}, false
	}
	prevInt := st.in.PrevText
	if dot := strings.IndexByte(prevInt, '.'); dot >= 0 {
		prevInt = prevInt[:dot]
	}
	if numeral.IntegerDigits(numeral.Strip(prevInt, st.sep)) == 0 {
		return Outcome{}, false
	}

	text := "0" + st.in.NextText
	canonical := numeral.Strip(text, st.sep)
	if !numeral.IsValid(canonical) {
		return reject(st), true
	}
	return st.acceptCommit(text, 1, canonical), true
}

// Default: canonicalize whatever the host delivered, reject anything that is
// not a numeral, reformat the rest and nudge the caret by however many
// separators appeared or vanished around it.
func ruleReformat(st *editState) (Outcome, bool) {
	if !numeral.IsValid(st.canonical) {
		return reject(st), true
	}

	text := numeral.Format(st.canonical, st.sep)
	caret := st.in.NextCaret
	if caret == 0 {
		return st.acceptCommit(text, 0, st.canonical), true
	}
	diff := numeral.SeparatorCount(text, st.sep) -
		numeral.SeparatorCount(st.in.NextText, st.sep)
	switch {
	case diff < 0:
		caret--
	case diff > 0:
		caret++
	}
	return st.acceptCommit(text, caret, st.canonical), true
}
