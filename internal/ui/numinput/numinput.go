// Package numinput provides a single-line numeric input component for
// Bubble Tea applications. The base was adapted from our textarea fork of
// bubbles, collapsed to one line and rerouted so the widget never mutates
// text itself: every keystroke is rebuilt into the raw before/after strings
// the field controller expects, and the controller decides what the field
// really shows. The widget is also the controller's host caret register and
// render scheduler, so caret corrections land one tick after the text they
// belong to.
package numinput

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/runeutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/unkn0wn-root/numfield/internal/field"
	"github.com/unkn0wn-root/numfield/internal/numeral"
)

const (
	defaultWidth = 24

	// horizontalScrollMargin defines how many columns of padding we try to
	// keep between the cursor and either horizontal edge before we start
	// shifting content.
	horizontalScrollMargin = 4
)

// Internal messages for clipboard operations.
type (
	pasteMsg    string
	pasteErrMsg struct{ error }
)

// KeyMap is the key bindings for different actions within the input.
type KeyMap struct {
	CharacterBackward       key.Binding
	CharacterForward        key.Binding
	DeleteAfterCursor       key.Binding
	DeleteBeforeCursor      key.Binding
	DeleteCharacterBackward key.Binding
	DeleteCharacterForward  key.Binding
	LineEnd                 key.Binding
	LineStart               key.Binding
	Paste                   key.Binding
}

// DefaultKeyMap is the default set of key bindings for the numeric input.
var DefaultKeyMap = KeyMap{
	CharacterForward: key.NewBinding(
		key.WithKeys("right", "ctrl+f"),
		key.WithHelp("right", "character forward"),
	),
	CharacterBackward: key.NewBinding(
		key.WithKeys("left", "ctrl+b"),
		key.WithHelp("left", "character backward"),
	),
	DeleteAfterCursor: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "delete after cursor"),
	),
	DeleteBeforeCursor: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "delete before cursor"),
	),
	DeleteCharacterBackward: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("backspace", "delete character backward"),
	),
	DeleteCharacterForward: key.NewBinding(
		key.WithKeys("delete", "ctrl+d"),
		key.WithHelp("delete", "delete character forward"),
	),
	LineStart: key.NewBinding(
		key.WithKeys("home", "ctrl+a"),
		key.WithHelp("home", "line start"),
	),
	LineEnd: key.NewBinding(
		key.WithKeys("end", "ctrl+e"),
		key.WithHelp("end", "line end"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "paste"),
	),
}

// Style that will be applied to the input in focused and blurred states.
type Style struct {
	Base        lipgloss.Style
	Placeholder lipgloss.Style
	Prompt      lipgloss.Style
	Text        lipgloss.Style
}

func (s Style) computedPlaceholder() lipgloss.Style {
	return s.Placeholder.Inherit(s.Base).Inline(true)
}

func (s Style) computedPrompt() lipgloss.Style {
	return s.Prompt.Inherit(s.Base).Inline(true)
}

func (s Style) computedText() lipgloss.Style {
	return s.Text.Inherit(s.Base).Inline(true)
}

// DefaultStyles returns the default styles for focused and blurred states.
func DefaultStyles() (Style, Style) {
	focused := Style{
		Base:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Text:        lipgloss.NewStyle(),
	}
	blurred := Style{
		Base:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "7"}),
	}
	return focused, blurred
}

// Model is the Bubble Tea model for the numeric input element.
type Model struct {
	Err error

	// Prompt is printed before the field content.
	Prompt string

	// Placeholder is shown while the field is empty.
	Placeholder string

	// KeyMap encodes the keybindings recognized by the widget.
	KeyMap KeyMap

	// Cursor is the input cursor.
	Cursor cursor.Model

	FocusedStyle Style
	BlurredStyle Style
	style        *Style

	ctl *field.Controller

	// col is the host-side caret register the controller reads and writes.
	col int

	// pending holds caret writes the controller deferred until after the
	// next render.
	pending []func()

	width       int
	horizOffset int
	focus       bool

	rsan runeutil.Sanitizer
}

// New creates a numeric input bound to its own controller built from opts.
func New(opts numeral.Options) *Model {
	focusedStyle, blurredStyle := DefaultStyles()
	cur := cursor.New()

	m := &Model{
		Prompt:       "> ",
		KeyMap:       DefaultKeyMap,
		Cursor:       cur,
		FocusedStyle: focusedStyle,
		BlurredStyle: blurredStyle,
		style:        &blurredStyle,
		ctl:          field.New(opts),
		width:        defaultWidth,
	}
	m.ctl.Bind(m, m)
	return m
}

// Controller exposes the field controller for callback registration and
// value access.
func (m *Model) Controller() *field.Controller {
	return m.ctl
}

// Value returns the last committed value.
func (m *Model) Value() numeral.Value {
	return m.ctl.Value()
}

// Text returns the current display text.
func (m *Model) Text() string {
	return m.ctl.Text()
}

// SetValue reconciles the field with an externally supplied canonical value
// ("" clears it). The classifier is bypassed on this path.
func (m *Model) SetValue(canonical string) error {
	return m.ctl.Reconcile(canonical)
}

// Caret implements field.Host.
func (m *Model) Caret() int {
	return m.col
}

// SetCaret implements field.Host. Called by the controller strictly after
// the corresponding text mutation is visible.
func (m *Model) SetCaret(pos int) {
	m.col = clamp(pos, 0, len([]rune(m.ctl.Text())))
	m.repositionHorizontal()
}

// AfterRender implements field.Scheduler: the function runs at the top of
// the next Update cycle, after the current View output reached the host.
func (m *Model) AfterRender(fn func()) {
	m.pending = append(m.pending, fn)
}

func (m *Model) flushPending() {
	if len(m.pending) == 0 {
		return
	}
	fns := m.pending
	m.pending = nil
	for _, fn := range fns {
		fn()
	}
}

// Focused returns the focus state on the model.
func (m *Model) Focused() bool {
	return m.focus
}

// Focus sets the focus state on the model.
func (m *Model) Focus() tea.Cmd {
	m.focus = true
	m.style = &m.FocusedStyle
	return m.Cursor.Focus()
}

// Blur removes the focus state on the model.
func (m *Model) Blur() {
	m.focus = false
	m.style = &m.BlurredStyle
	m.Cursor.Blur()
}

// Width returns the content width of the input.
func (m *Model) Width() int {
	return m.width
}

// SetWidth sets the width the field content may occupy, prompt excluded.
func (m *Model) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	m.width = w
	m.repositionHorizontal()
}

// san initializes or retrieves the rune sanitizer.
func (m *Model) san() runeutil.Sanitizer {
	if m.rsan == nil {
		// Single-line input: collapse newlines/tabs out of pasted content.
		m.rsan = runeutil.NewSanitizer(
			runeutil.ReplaceNewlines(""),
			runeutil.ReplaceTabs(""),
		)
	}
	return m.rsan
}

// submit hands the edited raw text to the controller and mirrors the caret
// position the host would naturally land on. The controller replies with
// display text immediately and a caret correction on the next tick.
func (m *Model) submit(nextRaw string, caret int) {
	m.col = caret
	m.ctl.SubmitEdit(nextRaw, caret)
	m.repositionHorizontal()
}

func (m *Model) insertRunes(runes []rune) {
	runes = m.san().Sanitize(runes)
	if len(runes) == 0 {
		return
	}
	text := []rune(m.ctl.Text())
	col := clamp(m.col, 0, len(text))
	next := string(text[:col]) + string(runes) + string(text[col:])
	m.submit(next, col+len(runes))
}

func (m *Model) deleteBackward() {
	text := []rune(m.ctl.Text())
	col := clamp(m.col, 0, len(text))
	if col == 0 {
		return
	}
	next := string(text[:col-1]) + string(text[col:])
	m.submit(next, col-1)
}

func (m *Model) deleteForward() {
	text := []rune(m.ctl.Text())
	col := clamp(m.col, 0, len(text))
	if col >= len(text) {
		return
	}
	next := string(text[:col]) + string(text[col+1:])
	m.submit(next, col)
}

func (m *Model) deleteBeforeCursor() {
	text := []rune(m.ctl.Text())
	col := clamp(m.col, 0, len(text))
	if col == 0 {
		return
	}
	m.submit(string(text[col:]), 0)
}

func (m *Model) deleteAfterCursor() {
	text := []rune(m.ctl.Text())
	col := clamp(m.col, 0, len(text))
	if col >= len(text) {
		return
	}
	m.submit(string(text[:col]), col)
}

// moveCaret shifts the host caret without an edit and tells the controller
// so the next diff stays accurate.
func (m *Model) moveCaret(pos int) {
	m.col = clamp(pos, 0, len([]rune(m.ctl.Text())))
	m.ctl.ReportCaret(m.col)
	m.repositionHorizontal()
}

// Update is the Bubble Tea update loop.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	// Phase two of the previous edit: the text mutated last cycle has been
	// rendered, apply the deferred caret writes now.
	m.flushPending()

	if !m.focus {
		m.Cursor.Blur()
		return m, nil
	}

	oldCol := m.col
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.KeyMap.DeleteCharacterBackward):
			m.deleteBackward()
		case key.Matches(msg, m.KeyMap.DeleteCharacterForward):
			m.deleteForward()
		case key.Matches(msg, m.KeyMap.DeleteBeforeCursor):
			m.deleteBeforeCursor()
		case key.Matches(msg, m.KeyMap.DeleteAfterCursor):
			m.deleteAfterCursor()
		case key.Matches(msg, m.KeyMap.CharacterForward):
			m.moveCaret(m.col + 1)
		case key.Matches(msg, m.KeyMap.CharacterBackward):
			m.moveCaret(m.col - 1)
		case key.Matches(msg, m.KeyMap.LineStart):
			m.moveCaret(0)
		case key.Matches(msg, m.KeyMap.LineEnd):
			m.moveCaret(len([]rune(m.ctl.Text())))
		case key.Matches(msg, m.KeyMap.Paste):
			return m, Paste
		default:
			m.insertRunes(msg.Runes)
		}

	case pasteMsg:
		m.insertRunes([]rune(msg))

	case pasteErrMsg:
		m.Err = msg
	}

	var cmd tea.Cmd
	m.Cursor, cmd = m.Cursor.Update(msg)
	if m.col != oldCol && m.Cursor.Mode() == cursor.CursorBlink {
		m.Cursor.Blink = false
		cmd = m.Cursor.BlinkCmd()
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the input in its current state.
func (m *Model) View() string {
	text := []rune(m.ctl.Text())
	if len(text) == 0 && m.Placeholder != "" {
		return m.placeholderView()
	}

	style := m.style.computedText()
	prompt := m.style.computedPrompt().Render(m.Prompt)
	col := clamp(m.col, 0, len(text))

	start, visible := m.visibleWindow(text)
	cursorRel := col - start
	extraCell := 0

	var s strings.Builder
	s.WriteString(prompt)
	switch {
	case !m.focus || cursorRel < 0 || cursorRel > len(visible):
		s.WriteString(style.Render(string(visible)))
	case cursorRel == len(visible):
		m.Cursor.TextStyle = style
		s.WriteString(style.Render(string(visible)))
		m.Cursor.SetChar(" ")
		s.WriteString(style.Render(m.Cursor.View()))
		extraCell = 1
	default:
		m.Cursor.TextStyle = style
		s.WriteString(style.Render(string(visible[:cursorRel])))
		m.Cursor.SetChar(string(visible[cursorRel]))
		s.WriteString(style.Render(m.Cursor.View()))
		s.WriteString(style.Render(string(visible[cursorRel+1:])))
	}
	if gap := m.width - visualWidth(visible) - extraCell; gap > 0 {
		s.WriteString(strings.Repeat(" ", gap))
	}
	return m.style.Base.Render(s.String())
}

// placeholderView renders the prompt and placeholder with the cursor parked
// on the first placeholder character.
func (m *Model) placeholderView() string {
	var (
		s     strings.Builder
		style = m.style.computedPlaceholder()
	)
	s.WriteString(m.style.computedPrompt().Render(m.Prompt))

	p := m.Placeholder
	if uniseg.StringWidth(p) > m.width {
		p = ansi.Cut(p, 0, m.width)
	}
	if m.focus {
		m.Cursor.TextStyle = style
		first, rest, _, _ := uniseg.FirstGraphemeClusterInString(p, 0)
		m.Cursor.SetChar(first)
		s.WriteString(style.Render(m.Cursor.View()))
		s.WriteString(style.Render(rest))
	} else {
		s.WriteString(style.Render(p))
	}
	if gap := m.width - uniseg.StringWidth(p); gap > 0 {
		s.WriteString(strings.Repeat(" ", gap))
	}
	return m.style.Base.Render(s.String())
}

// repositionHorizontal keeps the caret inside the visible window, with a
// margin against either edge when the content overflows.
func (m *Model) repositionHorizontal() {
	text := []rune(m.ctl.Text())
	lineWidth := visualWidth(text)
	if lineWidth <= m.width {
		m.horizOffset = 0
		return
	}

	margin := horizontalScrollMargin
	if margin > (m.width-1)/2 {
		margin = (m.width - 1) / 2
	}

	cursorLeft := visualWidth(text[:clamp(m.col, 0, len(text))])
	if cursorLeft < m.horizOffset+margin {
		m.horizOffset = cursorLeft - margin
	} else if cursorLeft > m.horizOffset+m.width-margin {
		m.horizOffset = cursorLeft - m.width + margin
	}
	m.horizOffset = clamp(m.horizOffset, 0, max(0, lineWidth-m.width+1))
}

// visibleWindow returns the first visible rune index and the runes that fit
// the configured width from there.
func (m *Model) visibleWindow(text []rune) (int, []rune) {
	start := 0
	consumed := 0
	for start < len(text) && consumed < m.horizOffset {
		consumed += rw.RuneWidth(text[start])
		start++
	}
	end := start
	width := 0
	for end < len(text) {
		w := rw.RuneWidth(text[end])
		if width+w > m.width {
			break
		}
		width += w
		end++
	}
	return start, text[start:end]
}

// Blink returns the blink command for the cursor.
func Blink() tea.Msg {
	return cursor.Blink()
}

// Paste is a command for pasting from the clipboard into the input.
func Paste() tea.Msg {
	str, err := clipboard.ReadAll()
	if err != nil {
		return pasteErrMsg{err}
	}
	return pasteMsg(str)
}

func visualWidth(runes []rune) int {
	width := 0
	for _, r := range runes {
		width += rw.RuneWidth(r)
	}
	return width
}

func clamp(v, low, high int) int {
	if high < low {
		low, high = high, low
	}
	return min(high, max(low, v))
}
