package commands

import (
	"sort"
	"strings"
)

// ResultAction tells the UI what to do with a command result beyond showing it.
type ResultAction string

const (
	ResultActionNone        ResultAction = ""
	ResultActionShow        ResultAction = "show"
	ResultActionCheckHealth ResultAction = "check_health"
	ResultActionToggleDev   ResultAction = "toggle_dev"
	ResultActionCopy        ResultAction = "copy"
	ResultActionQuit        ResultAction = "quit"
)

// Result represents the result of a command execution
type Result struct {
	Title   string
	Content string
	Action  ResultAction
	Error   error
}

// Handler is the interface for command handlers
type Handler interface {
	Execute(ctx *Context) *Result
	Name() string
	Description() string
}

// Dispatcher routes commands to their handlers
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates a new command dispatcher
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	// Register default handlers
	d.Register(&HelpHandler{dispatcher: d})
	d.Register(&HealthHandler{})
	d.Register(&DevHandler{})
	d.Register(&CopyHandler{})
	d.Register(&QuitHandler{})

	return d
}

// Register adds a handler to the dispatcher
func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Name()] = h
}

// Lookup returns the handler whose name equals the whole trimmed input.
// Text that merely starts with a command name is not a command.
func (d *Dispatcher) Lookup(input string) (Handler, bool) {
	return d.GetHandler(strings.TrimSpace(input))
}

// GetHandler returns a handler by name
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	h, ok := d.handlers[cmdName]
	return h, ok
}

// Handlers returns every registered handler sorted by name.
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}
