package classify

import (
	"math/big"
	"testing"

	"github.com/unkn0wn-root/numfield/internal/numeral"
)

func mustLimit(t *testing.T, s string) numeral.Limit {
	t.Helper()
	limit, err := numeral.ParseLimit(s)
	if err != nil {
		t.Fatalf("ParseLimit(%q): %v", s, err)
	}
	return limit
}

type editCase struct {
	name      string
	prevText  string
	prevCaret int
	nextText  string
	nextCaret int
	opts      numeral.Options

	wantKind   OutcomeKind
	wantRule   string
	wantText   string
	wantCaret  int
	wantCommit bool
	wantValue  string
	wantViol   ViolationKind
}

func runEditCases(t *testing.T, cases []editCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Classify(Input{
				PrevText:  tc.prevText,
				PrevCaret: tc.prevCaret,
				NextText:  tc.nextText,
				NextCaret: tc.nextCaret,
			}, tc.opts)

			if out.Kind != tc.wantKind {
				t.Fatalf("kind = %v (rule %s), want %v", out.Kind, out.Rule, tc.wantKind)
			}
			if tc.wantRule != "" && out.Rule != tc.wantRule {
				t.Fatalf("rule = %s, want %s", out.Rule, tc.wantRule)
			}
			switch tc.wantKind {
			case Accepted:
				if out.Text != tc.wantText {
					t.Fatalf("text = %q, want %q", out.Text, tc.wantText)
				}
				if out.Caret != tc.wantCaret {
					t.Fatalf("caret = %d, want %d", out.Caret, tc.wantCaret)
				}
				if out.Commit != tc.wantCommit {
					t.Fatalf("commit = %v, want %v", out.Commit, tc.wantCommit)
				}
				if tc.wantCommit && out.Value.String() != tc.wantValue {
					t.Fatalf("value = %q, want %q", out.Value.String(), tc.wantValue)
				}
			case Rejected:
				if out.Caret != tc.wantCaret {
					t.Fatalf("restored caret = %d, want %d", out.Caret, tc.wantCaret)
				}
			case Violated:
				if out.Violation.Kind != tc.wantViol {
					t.Fatalf("violation kind = %s, want %s", out.Violation.Kind, tc.wantViol)
				}
			}
		})
	}
}

func TestClassifyPartialForms(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "cleared field commits null",
			prevText: "1,234", prevCaret: 5, nextText: "", nextCaret: 0,
			wantKind: Accepted, wantRule: "clear",
			wantText: "", wantCaret: 0, wantCommit: true, wantValue: "",
		},
		{
			name:     "lone minus stays typeable",
			prevText: "", prevCaret: 0, nextText: "-", nextCaret: 1,
			wantKind: Accepted, wantRule: "lone-minus",
			wantText: "-", wantCaret: 1,
		},
		{
			name:     "lone dot becomes zero dot",
			prevText: "", prevCaret: 0, nextText: ".", nextCaret: 1,
			wantKind: Accepted, wantRule: "lone-dot",
			wantText: "0.", wantCaret: 2, wantCommit: true, wantValue: "0",
		},
		{
			name:     "minus dot becomes minus zero dot",
			prevText: "-", prevCaret: 1, nextText: "-.", nextCaret: 2,
			wantKind: Accepted, wantRule: "minus-dot",
			wantText: "-0.", wantCaret: 3, wantCommit: true, wantValue: "0",
		},
		{
			name:     "zero dot stays",
			prevText: "0", prevCaret: 1, nextText: "0.", nextCaret: 2,
			wantKind: Accepted, wantRule: "zero-dot",
			wantText: "0.", wantCaret: 2, wantCommit: true, wantValue: "0",
		},
		{
			name:     "dot appended to dotless number",
			prevText: "1,234", prevCaret: 5, nextText: "1,234.", nextCaret: 6,
			wantKind: Accepted, wantRule: "append-dot",
			wantText: "1,234.", wantCaret: 6,
		},
		{
			name:     "trailing dot deleted",
			prevText: "1,234.", prevCaret: 6, nextText: "1,234", nextCaret: 5,
			wantKind: Accepted, wantRule: "drop-trailing-dot",
			wantText: "1,234", wantCaret: 5,
		},
	})
}

func TestClassifyTypedDigits(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "first digit",
			prevText: "", prevCaret: 0, nextText: "1", nextCaret: 1,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "1", wantCaret: 1, wantCommit: true, wantValue: "1",
		},
		{
			name:     "digit growing a group",
			prevText: "12,234", prevCaret: 6, nextText: "12,2345", nextCaret: 7,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "122,345", wantCaret: 7, wantCommit: true, wantValue: "122345",
		},
		{
			name:     "digit at front introduces a separator",
			prevText: "234", prevCaret: 0, nextText: "1234", nextCaret: 1,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "1,234", wantCaret: 2, wantCommit: true, wantValue: "1234",
		},
		{
			name:     "backspace drops a separator",
			prevText: "1,234", prevCaret: 5, nextText: "1,23", nextCaret: 4,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "123", wantCaret: 3, wantCommit: true, wantValue: "123",
		},
		{
			name:     "leading zeros normalize in the value only",
			prevText: "00", prevCaret: 2, nextText: "002", nextCaret: 3,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "002", wantCaret: 3, wantCommit: true, wantValue: "2",
		},
		{
			name:     "digit after minus",
			prevText: "-", prevCaret: 1, nextText: "-5", nextCaret: 2,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "-5", wantCaret: 2, wantCommit: true, wantValue: "-5",
		},
		{
			name:     "garbage is rejected with caret restored",
			prevText: "12", prevCaret: 2, nextText: "12a", nextCaret: 3,
			wantKind: Rejected, wantCaret: 2,
		},
		{
			name:     "resubmitting identical text is a no-op shape",
			prevText: "1,234", prevCaret: 3, nextText: "1,234", nextCaret: 3,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "1,234", wantCaret: 3, wantCommit: true, wantValue: "1234",
		},
	})
}

func TestClassifyDecimalRelocation(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "dot typed inside the fraction moves the decimal point",
			prevText: "123.45", prevCaret: 5, nextText: "123.4.5", nextCaret: 6,
			wantKind: Accepted, wantRule: "relocate-dot",
			wantText: "1,234.5", wantCaret: 6, wantCommit: true, wantValue: "1234.5",
		},
		{
			name:     "dot typed against the existing dot parks the caret",
			prevText: "123.45", prevCaret: 4, nextText: "123..45", nextCaret: 5,
			wantKind: Accepted, wantRule: "relocate-dot",
			wantText: "123.45", wantCaret: 4,
		},
		{
			name:     "dot typed into the integer segment",
			prevText: "1,234.5", prevCaret: 2, nextText: "1,.234.5", nextCaret: 3,
			wantKind: Accepted, wantRule: "relocate-dot",
			wantText: "1.2345", wantCaret: 2, wantCommit: true, wantValue: "1.2345",
		},
		{
			name:     "relocating before a sign seeds a zero",
			prevText: "-123.4", prevCaret: 1, nextText: "-.123.4", nextCaret: 2,
			wantKind: Accepted, wantRule: "relocate-dot",
			wantText: "-0.1234", wantCaret: 3, wantCommit: true, wantValue: "-0.1234",
		},
	})
}

func TestClassifyDecimalDeletion(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "deleting the dot merges segments",
			prevText: "1,234.56", prevCaret: 6, nextText: "1,23456", nextCaret: 5,
			wantKind: Accepted, wantRule: "delete-dot",
			wantText: "123,456", wantCaret: 5, wantCommit: true, wantValue: "123456",
		},
		{
			name:     "merge inserts a separator before the merge point",
			prevText: "123.45", prevCaret: 4, nextText: "12345", nextCaret: 3,
			wantKind: Accepted, wantRule: "delete-dot",
			wantText: "12,345", wantCaret: 4, wantCommit: true, wantValue: "12345",
		},
	})
}

func TestClassifyFractionEdits(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "typed trailing fractional zero is cosmetic",
			prevText: "2.1", prevCaret: 3, nextText: "2.10", nextCaret: 4,
			wantKind: Accepted, wantRule: "toggle-fraction-zero",
			wantText: "2.10", wantCaret: 4,
		},
		{
			name:     "deleted trailing fractional zero is cosmetic",
			prevText: "2.100", prevCaret: 5, nextText: "2.10", nextCaret: 4,
			wantKind: Accepted, wantRule: "toggle-fraction-zero",
			wantText: "2.10", wantCaret: 4,
		},
		{
			name:     "fraction deleted back to the dot",
			prevText: "0.5", prevCaret: 3, nextText: "0.", nextCaret: 2,
			wantKind: Accepted, wantRule: "zero-dot",
			wantText: "0.", wantCaret: 2, wantCommit: true, wantValue: "0",
		},
		{
			name:     "long fraction deleted back to the dot",
			prevText: "1,234.56", prevCaret: 8, nextText: "1,234.", nextCaret: 6,
			wantKind: Accepted, wantRule: "truncate-to-dot",
			wantText: "1,234.", wantCaret: 6,
		},
		{
			name:     "fraction digit typed commits",
			prevText: "0.1", prevCaret: 3, nextText: "0.15", nextCaret: 4,
			wantKind: Accepted, wantRule: "edit-fraction",
			wantText: "0.15", wantCaret: 4, wantCommit: true, wantValue: "0.15",
		},
		{
			name:     "fraction digit deleted commits",
			prevText: "0.15", prevCaret: 4, nextText: "0.1", nextCaret: 3,
			wantKind: Accepted, wantRule: "edit-fraction",
			wantText: "0.1", wantCaret: 3, wantCommit: true, wantValue: "0.1",
		},
		{
			name:     "garbage in the fraction is silently rejected",
			prevText: "0.15", prevCaret: 3, nextText: "0.1x5", nextCaret: 4,
			wantKind: Rejected, wantCaret: 3,
		},
	})
}

func TestClassifySeparatorChurn(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "typed separator is dropped",
			prevText: "1,234", prevCaret: 2, nextText: "1,,234", nextCaret: 3,
			wantKind: Accepted, wantRule: "insert-separator",
			wantText: "1,234", wantCaret: 2,
		},
		{
			name:     "deleting a separator deletes the digit before it",
			prevText: "1,234", prevCaret: 2, nextText: "1234", nextCaret: 1,
			wantKind: Accepted, wantRule: "delete-separator",
			wantText: "234", wantCaret: 0, wantCommit: true, wantValue: "234",
		},
		{
			name:     "separator deletion deep in a long number",
			prevText: "12,345,678", prevCaret: 7, nextText: "12,345678", nextCaret: 6,
			wantKind: Accepted, wantRule: "delete-separator",
			wantText: "1,234,678", wantCaret: 5, wantCommit: true, wantValue: "1234678",
		},
	})
}

func TestClassifyIntegerRestore(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "whole integer segment deleted re-seeds a zero",
			prevText: "1.5", prevCaret: 1, nextText: ".5", nextCaret: 0,
			wantKind: Accepted, wantRule: "restore-integer-zero",
			wantText: "0.5", wantCaret: 1, wantCommit: true, wantValue: "0.5",
		},
	})
}

func TestClassifyViolations(t *testing.T) {
	limited := numeral.Options{Limit: mustLimit(t, "10.2")}
	bounded := numeral.Options{
		Max: big.NewRat(100, 1),
		Min: big.NewRat(-100, 1),
	}

	runEditCases(t, []editCase{
		{
			name:     "eleventh integer digit",
			prevText: "1,234,567,890", prevCaret: 13,
			nextText: "1,234,567,8901", nextCaret: 14, opts: limited,
			wantKind: Violated, wantViol: ViolationIntegerLimit,
		},
		{
			name:     "third decimal digit",
			prevText: "1.25", prevCaret: 4,
			nextText: "1.253", nextCaret: 5, opts: limited,
			wantKind: Violated, wantViol: ViolationDecimalLimit,
		},
		{
			name:     "over max",
			prevText: "10", prevCaret: 2,
			nextText: "101", nextCaret: 3, opts: bounded,
			wantKind: Violated, wantViol: ViolationMax,
		},
		{
			name:     "under min",
			prevText: "-10", prevCaret: 3,
			nextText: "-101", nextCaret: 4, opts: bounded,
			wantKind: Violated, wantViol: ViolationMin,
		},
		{
			name:     "lone minus skips bounds checks",
			prevText: "", prevCaret: 0, nextText: "-", nextCaret: 1, opts: bounded,
			wantKind: Accepted, wantRule: "lone-minus",
			wantText: "-", wantCaret: 1,
		},
	})
}

func TestViolationPayload(t *testing.T) {
	out := Classify(Input{
		PrevText: "1,234,567,890", PrevCaret: 13,
		NextText: "1,234,567,8901", NextCaret: 14,
	}, numeral.Options{Limit: mustLimit(t, "10.2")})

	if out.Kind != Violated {
		t.Fatalf("kind = %v, want Violated", out.Kind)
	}
	if out.Violation.Bound != "10" || out.Violation.Actual != "11" {
		t.Fatalf("violation payload = %+v, want bound 10 actual 11", out.Violation)
	}
}

func TestClassifyPasteWholeNumber(t *testing.T) {
	runEditCases(t, []editCase{
		{
			name:     "pasted integer",
			prevText: "", prevCaret: 0, nextText: "122345", nextCaret: 6,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "122,345", wantCaret: 7, wantCommit: true, wantValue: "122345",
		},
		{
			name:     "pasted decimal",
			prevText: "", prevCaret: 0, nextText: "1234567.111", nextCaret: 11,
			wantKind: Accepted, wantRule: "reformat",
			wantText: "1,234,567.111", wantCaret: 12, wantCommit: true, wantValue: "1234567.111",
		},
	})
}
