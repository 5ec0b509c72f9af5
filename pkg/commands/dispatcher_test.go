package commands

import (
	"context"
	"strings"
	"testing"

	"taskchat/pkg/backend"
	"taskchat/pkg/chat"
)

type stubBackend struct {
	result string
}

func (s stubBackend) Run(ctx context.Context, task string) (backend.RunResponse, error) {
	return backend.RunResponse{Status: backend.StatusSuccess, Result: s.result}, nil
}

func (s stubBackend) Health(ctx context.Context) error { return nil }

func TestNewContext(t *testing.T) {
	sess := chat.NewSession(stubBackend{}, nil)
	ctx := NewContext(sess, "http://localhost:7001")

	if ctx.Session == nil {
		t.Error("Expected Session to be set")
	}
	if ctx.BackendURL != "http://localhost:7001" {
		t.Errorf("Expected backend URL, got %q", ctx.BackendURL)
	}
}

func TestNewDispatcher(t *testing.T) {
	d := NewDispatcher()

	if d == nil {
		t.Fatal("NewDispatcher() returned nil")
	}

	// Check all commands are registered
	commands := []string{"/help", "/health", "/dev", "/copy", "/quit"}
	for _, cmd := range commands {
		if _, ok := d.GetHandler(cmd); !ok {
			t.Errorf("Expected handler for %s to be registered", cmd)
		}
	}
	if len(d.Handlers()) != len(commands) {
		t.Errorf("Expected %d handlers, got %d", len(commands), len(d.Handlers()))
	}
}

func TestDispatcher_LookupExactMatchOnly(t *testing.T) {
	d := NewDispatcher()

	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"  /help  ", true},
		{"/help me with tasks", false},
		{"/HELP", false},
		{"/unknown", false},
		{"help", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := d.Lookup(tt.input); ok != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.input, ok, tt.want)
		}
	}
}

func execute(t *testing.T, d *Dispatcher, input string, ctx *Context) *Result {
	t.Helper()
	h, ok := d.Lookup(input)
	if !ok {
		t.Fatalf("No handler for %q", input)
	}
	return h.Execute(ctx)
}

func TestDispatcher_GetHandlerNeedsExactName(t *testing.T) {
	d := NewDispatcher()

	if _, ok := d.GetHandler("/unknown"); ok {
		t.Error("Expected no handler for /unknown")
	}
	if _, ok := d.GetHandler(" /help"); ok {
		t.Error("Expected GetHandler not to trim")
	}
}

func TestHelpHandler(t *testing.T) {
	d := NewDispatcher()
	ctx := NewContext(nil, "https://tunnel.example.com")

	result := execute(t, d, "/help", ctx)

	if result == nil {
		t.Fatal("Expected result for /help command")
	}
	if result.Title != "Help" {
		t.Errorf("Expected title 'Help', got %q", result.Title)
	}
	if result.Action != ResultActionShow {
		t.Errorf("Expected show action, got %q", result.Action)
	}
	for _, want := range []string{"/health", "/dev", "/copy", "/quit", "https://tunnel.example.com"} {
		if !strings.Contains(result.Content, want) {
			t.Errorf("Expected help to mention %q", want)
		}
	}
}

func TestHandlerActions(t *testing.T) {
	d := NewDispatcher()
	ctx := NewContext(nil, "")

	tests := map[string]ResultAction{
		"/health": ResultActionCheckHealth,
		"/dev":    ResultActionToggleDev,
		"/quit":   ResultActionQuit,
	}
	for cmd, want := range tests {
		if got := execute(t, d, cmd, ctx).Action; got != want {
			t.Errorf("%s action = %q, want %q", cmd, got, want)
		}
	}
}

func TestCopyHandler_NoReply(t *testing.T) {
	d := NewDispatcher()
	sess := chat.NewSession(stubBackend{}, nil)

	result := execute(t, d, "/copy", NewContext(sess, ""))

	if result.Error == nil {
		t.Fatal("Expected error when there is nothing to copy")
	}
	if result.Action == ResultActionCopy {
		t.Error("Expected no copy action")
	}
}

func TestCopyHandler_LastReply(t *testing.T) {
	d := NewDispatcher()
	sess := chat.NewSession(stubBackend{result: "Done:\x1b[31m **3 tasks**"}, nil)
	sess.Submit(context.Background(), "count tasks")

	result := execute(t, d, "/copy", NewContext(sess, ""))

	if result.Error != nil {
		t.Fatalf("Unexpected error: %v", result.Error)
	}
	if result.Action != ResultActionCopy {
		t.Errorf("Expected copy action, got %q", result.Action)
	}
	if result.Content != "Done: **3 tasks**" {
		t.Errorf("Expected plain reply, got %q", result.Content)
	}
}
