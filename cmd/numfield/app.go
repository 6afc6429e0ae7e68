package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/numfield/internal/classify"
	"github.com/unkn0wn-root/numfield/internal/numeral"
	"github.com/unkn0wn-root/numfield/internal/ui/numinput"
)

const eventLogDepth = 8

// eventLog is shared by pointer across model copies so field callbacks can
// append from any update cycle.
type eventLog struct {
	lines []string
}

func (l *eventLog) add(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > eventLogDepth {
		l.lines = l.lines[len(l.lines)-eventLogDepth:]
	}
}

type slot struct {
	label string
	input *numinput.Model
}

type app struct {
	slots   []slot
	focused int
	events  *eventLog
	diff    string

	titleStyle lipgloss.Style
	labelStyle lipgloss.Style
	valueStyle lipgloss.Style
	eventStyle lipgloss.Style
	helpStyle  lipgloss.Style
}

func newApp(freeOpts numeral.Options, dark bool) *app {
	accent := lipgloss.Color("63")
	if !dark {
		accent = lipgloss.Color("25")
	}

	a := &app{
		events:     &eventLog{},
		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(accent),
		labelStyle: lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245")),
		valueStyle: lipgloss.NewStyle().Foreground(accent),
		eventStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		helpStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
	}

	price := numeral.Options{
		Limit: mustLimit("10.2"),
		Min:   big.NewRat(0, 1),
	}
	percent := numeral.Options{
		Max: big.NewRat(100, 1),
		Min: big.NewRat(-100, 1),
	}
	ledger := numeral.Options{Precise: true}

	a.addField("amount", freeOpts, "type any number")
	a.addField("price", price, "max 10 integer, 2 decimal digits")
	a.addField("percent", percent, "-100 to 100")
	a.addField("ledger", ledger, "precise digit strings")

	a.slots[0].input.Focus()
	return a
}

func (a *app) addField(label string, opts numeral.Options, placeholder string) {
	input := numinput.New(opts)
	input.Placeholder = placeholder
	input.SetWidth(28)

	ctl := input.Controller()
	id := shortID(ctl.ID())
	ctl.OnValueChanged(func(v numeral.Value) {
		a.events.add(fmt.Sprintf("%s[%s] committed %v", label, id, exportString(v)))
	})
	ctl.OnLimitExceeded(func(v classify.Violation) {
		a.events.add(fmt.Sprintf("%s[%s] violation %s (bound %s, got %s)",
			label, id, v.Kind, v.Bound, v.Actual))
	})

	a.slots = append(a.slots, slot{label: label, input: input})
}

func (a *app) Init() tea.Cmd {
	return numinput.Blink
}

func (a *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit
		case "tab", "shift+tab":
			a.slots[a.focused].input.Blur()
			if msg.String() == "tab" {
				a.focused = (a.focused + 1) % len(a.slots)
			} else {
				a.focused = (a.focused + len(a.slots) - 1) % len(a.slots)
			}
			return a, a.slots[a.focused].input.Focus()
		}
	}

	current := a.slots[a.focused].input
	before := current.Text()
	input, cmd := current.Update(msg)
	a.slots[a.focused].input = input

	if after := input.Text(); after != before {
		a.diff = udiff.Unified("before", "after", before+"\n", after+"\n")
	}
	return a, cmd
}

func (a *app) View() string {
	var b strings.Builder
	b.WriteString(a.titleStyle.Render("numfield"))
	b.WriteString("\n\n")

	for _, s := range a.slots {
		b.WriteString(a.labelStyle.Render(s.label))
		b.WriteString(s.input.View())
		b.WriteString("  ")
		b.WriteString(a.valueStyle.Render(exportString(s.input.Value())))
		b.WriteString("\n")
	}

	if len(a.events.lines) > 0 {
		b.WriteString("\n")
		for _, line := range a.events.lines {
			b.WriteString(a.eventStyle.Render(line))
			b.WriteString("\n")
		}
	}

	if a.diff != "" {
		b.WriteString("\n")
		b.WriteString(a.eventStyle.Render(strings.TrimRight(a.diff, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.helpStyle.Render("tab: next field • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func exportString(v numeral.Value) string {
	switch exported := v.Export().(type) {
	case nil:
		return "null"
	case string:
		return exported
	case float64:
		return fmt.Sprintf("%g", exported)
	default:
		return fmt.Sprintf("%v", exported)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func mustLimit(s string) numeral.Limit {
	limit, err := numeral.ParseLimit(s)
	if err != nil {
		panic(err)
	}
	return limit
}
