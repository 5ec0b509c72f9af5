package chatpanel

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"unicode/utf8"

	"taskchat/pkg/chat"
	"taskchat/pkg/format"
	"taskchat/pkg/ui/components/utils"
	"taskchat/pkg/ui/components/welcome"
	"taskchat/pkg/ui/styles"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

const (
	panelBorderSize = 1
	panelPaddingH   = 1
	inputHeight     = 3
	scrollPage      = 10

	// DefaultMaxChars is the input limit when none is configured.
	DefaultMaxChars = 1000

	footerHint     = "Enter Send | Shift+Enter Newline | Esc Clear | Ctrl+Y Copy | /help"
	busyFooterHint = "Waiting for reply... | Up/Down Scroll"
	thinkingLabel  = "Thinking..."
)

// SubmitMsg is returned when the user presses Enter on non-blank input.
type SubmitMsg struct {
	Text string
}

// CopiedMsg reports the outcome of a clipboard copy.
type CopiedMsg struct {
	Chars int
	Err   error
}

// ChatPanel shows the transcript above a multi-line input.
type ChatPanel struct {
	width   int
	height  int
	scrollY int
	lines   []string
	follow  bool

	messages []chat.Message
	textarea textarea.Model
	spinner  spinner.Model
	maxChars int
	busy     bool

	clipboard io.Writer
}

// New creates a focused chat panel that accepts at most maxChars runes.
func New(maxChars int) *ChatPanel {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	ta := textarea.New()
	ta.Placeholder = "Ask me anything about your workspace..."
	ta.ShowLineNumbers = false
	ta.CharLimit = maxChars
	ta.SetHeight(inputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TitleStyle

	return &ChatPanel{
		follow:    true,
		textarea:  ta,
		spinner:   sp,
		maxChars:  maxChars,
		clipboard: os.Stdout,
	}
}

// SetClipboardWriter sets where OSC 52 copy sequences are written.
func (p *ChatPanel) SetClipboardWriter(w io.Writer) {
	p.clipboard = w
}

// SetSize sets the panel dimensions.
func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.reflow()
}

// SetMessages replaces the transcript shown in the panel.
func (p *ChatPanel) SetMessages(msgs []chat.Message) {
	p.messages = msgs
	p.reflow()
	if p.follow {
		p.scrollY = p.maxScroll()
	}
}

// SetBusy disables input while a request is pending and re-enables it after.
// It returns the spinner tick when the thinking indicator starts.
func (p *ChatPanel) SetBusy(busy bool) tea.Cmd {
	if p.busy == busy {
		return nil
	}
	p.busy = busy
	if busy {
		p.textarea.Blur()
		p.follow = true
		p.reflow()
		p.scrollY = p.maxScroll()
		return p.spinner.Tick
	}
	p.textarea.Focus()
	p.reflow()
	if p.follow {
		p.scrollY = p.maxScroll()
	}
	return nil
}

// IsBusy reports whether input is disabled.
func (p *ChatPanel) IsBusy() bool {
	return p.busy
}

// UpdateSpinner advances the thinking indicator.
func (p *ChatPanel) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !p.busy {
		return nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	p.reflow()
	return cmd
}

// Value returns the current input text.
func (p *ChatPanel) Value() string {
	return p.textarea.Value()
}

// SetValue replaces the input text.
func (p *ChatPanel) SetValue(text string) {
	p.textarea.SetValue(text)
}

// ClearInput empties the input.
func (p *ChatPanel) ClearInput() {
	p.textarea.Reset()
}

// CharCount returns the number of runes in the input.
func (p *ChatPanel) CharCount() int {
	return utf8.RuneCountInString(p.textarea.Value())
}

// Counter renders the n/limit input counter.
func (p *ChatPanel) Counter() string {
	return fmt.Sprintf("%d/%d", p.CharCount(), p.maxChars)
}

// Update handles keyboard input.
func (p *ChatPanel) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if p.busy {
			return nil
		}
		text := strings.TrimSpace(p.textarea.Value())
		if text == "" {
			return nil
		}
		return func() tea.Msg {
			return SubmitMsg{Text: text}
		}
	case "shift+enter", "ctrl+j":
		if !p.busy {
			p.textarea.InsertString("\n")
		}
		return nil
	case "esc":
		p.textarea.Reset()
		return nil
	case "up", "down", "pgup", "pgdown", "home", "end":
		p.handleScroll(msg.String())
		return nil
	case "ctrl+y":
		return p.CopyLastReply()
	}

	if p.busy {
		return nil
	}
	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	return cmd
}

// HandlePaste routes paste content to the input.
func (p *ChatPanel) HandlePaste(content string) {
	if p.busy {
		return
	}
	p.textarea.InsertString(content)
}

// CopyLastReply copies the newest bot message to the clipboard.
func (p *ChatPanel) CopyLastReply() tea.Cmd {
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].Role == chat.RoleBot {
			return Copy(p.clipboard, format.Plain(p.messages[i].Text))
		}
	}
	return func() tea.Msg {
		return CopiedMsg{Err: fmt.Errorf("nothing to copy yet")}
	}
}

// Copy writes text to the terminal clipboard with an OSC 52 sequence.
func Copy(w io.Writer, text string) tea.Cmd {
	return func() tea.Msg {
		if _, err := fmt.Fprint(w, osc52.New(text)); err != nil {
			return CopiedMsg{Err: err}
		}
		return CopiedMsg{Chars: utf8.RuneCountInString(text)}
	}
}

func (p *ChatPanel) handleScroll(key string) {
	maxScroll := p.maxScroll()

	switch key {
	case "up":
		if p.scrollY > 0 {
			p.scrollY--
			p.follow = false
		}
	case "down":
		if p.scrollY < maxScroll {
			p.scrollY++
		}
		p.follow = p.scrollY >= maxScroll
	case "pgup":
		p.scrollY -= scrollPage
		if p.scrollY < 0 {
			p.scrollY = 0
		}
		p.follow = false
	case "pgdown":
		p.scrollY += scrollPage
		if p.scrollY > maxScroll {
			p.scrollY = maxScroll
		}
		p.follow = p.scrollY >= maxScroll
	case "home":
		p.scrollY = 0
		p.follow = maxScroll == 0
	case "end":
		p.scrollY = maxScroll
		p.follow = true
	}
}

// View renders the panel.
func (p *ChatPanel) View() string {
	contentWidth := p.contentWidth()
	viewportHeight := p.viewportHeight()

	lines := make([]string, 0, p.contentHeight())

	start := p.scrollY
	end := start + viewportHeight
	if end > len(p.lines) {
		end = len(p.lines)
	}
	for i := start; i < end; i++ {
		lines = append(lines, utils.Pad(p.lines[i], contentWidth))
	}
	for len(lines) < viewportHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	lines = append(lines, styles.TextMutedStyle.Render(strings.Repeat("─", contentWidth)))

	p.textarea.SetWidth(contentWidth)
	for i, line := range strings.Split(p.textarea.View(), "\n") {
		if i >= inputHeight {
			break
		}
		lines = append(lines, utils.Pad(line, contentWidth))
	}
	for len(lines) < viewportHeight+1+inputHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	lines = append(lines, p.renderFooter(contentWidth))

	boxWidth := p.width
	if boxWidth < 1 {
		boxWidth = 1
	}
	return styles.ChatBoxStyle.
		Width(boxWidth).
		Padding(0, panelPaddingH).
		Render(strings.Join(lines, "\n"))
}

func (p *ChatPanel) renderFooter(width int) string {
	counterStyle := styles.CounterStyle
	if p.CharCount() >= p.maxChars {
		counterStyle = styles.CounterLimitStyle
	}
	counter := p.Counter()

	hint := footerHint
	if p.busy {
		hint = busyFooterHint
	}
	hintWidth := width - lipgloss.Width(counter) - 1
	hint = utils.Truncate(hint, hintWidth)

	left := styles.FooterStyle.Render(hint)
	gap := width - lipgloss.Width(hint) - lipgloss.Width(counter)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + counterStyle.Render(counter)
}

// RenderTranscript renders every message as terminal lines of the given width.
func RenderTranscript(msgs []chat.Message, width int) []string {
	var out []string
	for i, msg := range msgs {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, messageHeader(msg))
		for _, line := range format.Terminal(msg.Text, width-2) {
			out = append(out, "  "+line)
		}
	}
	return out
}

func messageHeader(msg chat.Message) string {
	stamp := styles.TimestampStyle.Render(" · " + msg.Timestamp.Format("15:04"))
	if msg.IsUser() {
		return styles.UserPrefixStyle.Render(messagePrefix(chat.RoleUser)) + stamp
	}
	return styles.BotPrefixStyle.Render(messagePrefix(chat.RoleBot)) + stamp
}

func messagePrefix(role chat.Role) string {
	useEmoji := runtime.GOOS != "darwin"
	switch role {
	case chat.RoleUser:
		if useEmoji {
			return "👤 You"
		}
		return "You"
	default:
		if useEmoji {
			return "🧠 Assistant"
		}
		return "Assistant"
	}
}

func (p *ChatPanel) reflow() {
	width := p.contentWidth()
	if len(p.messages) == 0 {
		p.lines = welcome.Lines(width)
	} else {
		p.lines = RenderTranscript(p.messages, width)
	}
	if p.busy {
		p.lines = append(p.lines, "", p.spinner.View()+" "+styles.TextMutedStyle.Render(thinkingLabel))
	}
	if p.scrollY > p.maxScroll() {
		p.scrollY = p.maxScroll()
	}
	if p.scrollY < 0 {
		p.scrollY = 0
	}
}

func (p *ChatPanel) contentWidth() int {
	width := p.width - 2*(panelBorderSize+panelPaddingH)
	if width < 1 {
		return 1
	}
	return width
}

func (p *ChatPanel) contentHeight() int {
	height := p.height - 2*panelBorderSize
	if height < 1 {
		return 1
	}
	return height
}

// viewportHeight is the content height minus separator, input and footer.
func (p *ChatPanel) viewportHeight() int {
	h := p.contentHeight() - 1 - inputHeight - 1
	if h < 1 {
		return 1
	}
	return h
}

func (p *ChatPanel) maxScroll() int {
	max := len(p.lines) - p.viewportHeight()
	if max < 0 {
		return 0
	}
	return max
}
