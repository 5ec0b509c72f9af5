package commands

import (
	"fmt"
	"strings"

	"taskchat/pkg/format"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Name() string        { return "/help" }
func (h *HelpHandler) Description() string { return "Show help" }

func (h *HelpHandler) Execute(ctx *Context) *Result {
	var sb strings.Builder
	sb.WriteString("📚 taskchat Help\n\n")
	if ctx != nil && ctx.BackendURL != "" {
		sb.WriteString(fmt.Sprintf("Backend: %s\n\n", ctx.BackendURL))
	}

	sb.WriteString("Commands (type the whole command and press Enter):\n")
	if h.dispatcher != nil {
		for _, handler := range h.dispatcher.Handlers() {
			sb.WriteString(fmt.Sprintf("  %-9s - %s\n", handler.Name(), handler.Description()))
		}
	}

	sb.WriteString(`
Shortcuts:
  Enter         - Send message
  Shift+Enter   - New line (Ctrl+J also works)
  Esc           - Clear input / close panel
  Up/Down       - Scroll conversation
  PgUp/PgDn     - Scroll a page
  Ctrl+Y        - Copy last reply
  Alt+1..4      - Send a suggestion (welcome screen)
  Ctrl+C        - Quit

Press Esc to close this panel.`)

	return &Result{
		Title:   "Help",
		Content: sb.String(),
		Action:  ResultActionShow,
	}
}

// HealthHandler handles the /health command
type HealthHandler struct{}

func (h *HealthHandler) Name() string        { return "/health" }
func (h *HealthHandler) Description() string { return "Check the backend connection" }

func (h *HealthHandler) Execute(ctx *Context) *Result {
	return &Result{
		Title:  "Health",
		Action: ResultActionCheckHealth,
	}
}

// DevHandler handles the /dev command
type DevHandler struct{}

func (h *DevHandler) Name() string        { return "/dev" }
func (h *DevHandler) Description() string { return "Toggle the developer panel" }

func (h *DevHandler) Execute(ctx *Context) *Result {
	return &Result{
		Title:  "Developer",
		Action: ResultActionToggleDev,
	}
}

// CopyHandler handles the /copy command
type CopyHandler struct{}

func (h *CopyHandler) Name() string        { return "/copy" }
func (h *CopyHandler) Description() string { return "Copy the last reply to the clipboard" }

func (h *CopyHandler) Execute(ctx *Context) *Result {
	reply, ok := ctx.LastReply()
	if !ok || strings.TrimSpace(reply) == "" {
		return &Result{
			Title: "Copy",
			Error: fmt.Errorf("nothing to copy yet"),
		}
	}
	return &Result{
		Title:   "Copy",
		Content: format.Plain(reply),
		Action:  ResultActionCopy,
	}
}

// QuitHandler handles the /quit command
type QuitHandler struct{}

func (h *QuitHandler) Name() string        { return "/quit" }
func (h *QuitHandler) Description() string { return "Exit taskchat" }

func (h *QuitHandler) Execute(ctx *Context) *Result {
	return &Result{
		Title:  "Quit",
		Action: ResultActionQuit,
	}
}
