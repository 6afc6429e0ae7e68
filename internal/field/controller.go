// Package field owns the persistent state of one numeric input: display
// text, caret and last committed value. Every text mutation funnels through
// SubmitEdit or Reconcile; the host only relays caret reads and writes.
package field

import (
	"github.com/google/uuid"

	"github.com/unkn0wn-root/numfield/internal/classify"
	"github.com/unkn0wn-root/numfield/internal/errdef"
	"github.com/unkn0wn-root/numfield/internal/numeral"
)

// Host is the widget-side caret register. SetCaret is only invoked after the
// corresponding text mutation is observably applied (see Scheduler).
type Host interface {
	Caret() int
	SetCaret(pos int)
}

// Scheduler defers a caret write until after the host has rendered the new
// text, so the host's own caret clamping sees the new length. Rendering and
// the deferred call form a two-phase effect, not a timer.
type Scheduler interface {
	AfterRender(fn func())
}

// Controller drives the edit classifier and applies its outcomes.
type Controller struct {
	id    string
	opts  numeral.Options
	host  Host
	sched Scheduler

	onValue     func(numeral.Value)
	onViolation func(classify.Violation)

	text  string
	caret int
	last  numeral.Value
}

func New(opts numeral.Options) *Controller {
	return &Controller{
		id:   uuid.NewString(),
		opts: opts,
		last: numeral.Null(),
	}
}

// Bind attaches the host caret register and render scheduler. Both may be
// nil in headless use; caret corrections are then skipped.
func (c *Controller) Bind(host Host, sched Scheduler) {
	c.host = host
	c.sched = sched
}

// OnValueChanged registers the owner's value consumer. It fires at most once
// per edit and only when the committed value actually changed.
func (c *Controller) OnValueChanged(fn func(numeral.Value)) {
	c.onValue = fn
}

// OnLimitExceeded registers the limit-violation consumer. A violation never
// coincides with a state mutation.
func (c *Controller) OnLimitExceeded(fn func(classify.Violation)) {
	c.onViolation = fn
}

func (c *Controller) ID() string              { return c.id }
func (c *Controller) Text() string            { return c.text }
func (c *Controller) Caret() int              { return c.caret }
func (c *Controller) Value() numeral.Value    { return c.last }
func (c *Controller) Options() numeral.Options { return c.opts }

// SubmitEdit classifies the raw text the host now contains against the
// previously displayed state and applies the outcome. The returned outcome
// is informational; all side effects already happened.
func (c *Controller) SubmitEdit(nextRaw string, hostCaret int) classify.Outcome {
	out := classify.Classify(classify.Input{
		PrevText:  c.text,
		PrevCaret: c.caret,
		NextText:  nextRaw,
		NextCaret: hostCaret,
	}, c.opts)

	switch out.Kind {
	case classify.Accepted:
		c.text = out.Text
		c.caret = out.Caret
		if out.Commit && !out.Value.Equal(c.last) {
			c.last = out.Value
			if c.onValue != nil {
				c.onValue(out.Value)
			}
		}
	case classify.Rejected:
		c.caret = out.Caret
	case classify.Violated:
		if c.onViolation != nil {
			c.onViolation(out.Violation)
		}
	}

	c.scheduleCaret()
	return out
}

// ReportCaret records a caret move the host performed on its own (click,
// arrow key) so the next edit diff stays accurate.
func (c *Controller) ReportCaret(pos int) {
	c.caret = clamp(pos, 0, len([]rune(c.text)))
}

// Reconcile replaces field state with an externally supplied authoritative
// value, bypassing the classifier. external is a canonical numeric string;
// "" means null. The decimal segment is truncated to the configured limit;
// no violation checks run, externals are pre-validated by the owner.
func (c *Controller) Reconcile(external string) error {
	if external == "" {
		if c.last.IsNull() && c.text == "" {
			return nil
		}
		c.text = ""
		c.caret = 0
		c.last = numeral.Null()
		c.scheduleCaret()
		return nil
	}

	normalized := numeral.Normalize(numeral.TruncateDecimals(external, c.opts.Limit))
	value, ok := numeral.ParseValue(normalized, c.opts.Precise)
	if !ok {
		return errdef.New(errdef.CodeParse, "reconcile: not a numeral: %q", external)
	}
	if value.Equal(c.last) {
		return nil
	}

	c.text = numeral.Format(normalized, c.opts.Sep())
	c.caret = len([]rune(c.text))
	c.last = value
	c.scheduleCaret()
	return nil
}

// scheduleCaret queues phase two of the edit: writing the corrected caret
// back to the host once the mutated text has rendered.
func (c *Controller) scheduleCaret() {
	if c.host == nil || c.sched == nil {
		return
	}
	pos := c.caret
	c.sched.AfterRender(func() {
		c.host.SetCaret(pos)
	})
}

func clamp(v, low, high int) int {
	if high < low {
		low, high = high, low
	}
	return min(high, max(low, v))
}
