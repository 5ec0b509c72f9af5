package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskchat/pkg/backend"
	"taskchat/pkg/config"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func writeTestConfig(t *testing.T, backendURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.BackendURL = backendURL
	cfg.MaxRetries = 1
	cfg.RetryDelayMS = 1
	cfg.LogFile = filepath.Join(dir, "logs", "taskchat.log")
	path := filepath.Join(dir, "config.json")
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, env map[string]string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr, func(key string) string { return env[key] })
	root := newRootCommand(a)
	root.SetArgs(args)
	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func newBackend(t *testing.T, status, result string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		var req backend.RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(backend.RunResponse{Status: status, Result: result})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSend_PrintsPlainReply(t *testing.T) {
	srv := newBackend(t, backend.StatusSuccess, "Created **2 tasks**")
	cfgPath := writeTestConfig(t, srv.URL)

	res := runCLI(t, nil, "--config", cfgPath, "send", "create", "two", "tasks")
	if res.err != nil {
		t.Fatalf("send failed: %v (stderr %q)", res.err, res.stderr)
	}
	if got := strings.TrimSpace(res.stdout); got != "Created **2 tasks**" {
		t.Errorf("Expected plain reply, got %q", got)
	}
}

func TestSend_HTML(t *testing.T) {
	srv := newBackend(t, backend.StatusSuccess, "Created **2 tasks**")
	cfgPath := writeTestConfig(t, srv.URL)

	res := runCLI(t, nil, "--config", cfgPath, "send", "--html", "go")
	if res.err != nil {
		t.Fatalf("send failed: %v", res.err)
	}
	if got := strings.TrimSpace(res.stdout); got != "Created <strong>2 tasks</strong>" {
		t.Errorf("Unexpected HTML %q", got)
	}
}

func TestSend_ProcessingErrorExitsNonZero(t *testing.T) {
	srv := newBackend(t, "error", "boom")
	cfgPath := writeTestConfig(t, srv.URL)

	res := runCLI(t, nil, "--config", cfgPath, "send", "fail")
	if !errors.Is(res.err, errExitFailure) {
		t.Fatalf("Expected exit failure, got %v", res.err)
	}
	if !strings.Contains(res.stdout, "Sorry, I encountered an error processing your request.") {
		t.Errorf("Expected processing error reply, got %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "[error] Request failed. Please try again.") {
		t.Errorf("Expected notification on stderr, got %q", res.stderr)
	}
}

func TestSend_ConnectionError(t *testing.T) {
	srv := newBackend(t, backend.StatusSuccess, "unused")
	url := srv.URL
	srv.Close()
	cfgPath := writeTestConfig(t, url)

	res := runCLI(t, nil, "--config", cfgPath, "send", "hello")
	if !errors.Is(res.err, errExitFailure) {
		t.Fatalf("Expected exit failure, got %v", res.err)
	}
	if !strings.Contains(res.stderr, "Connection error. Please try again.") {
		t.Errorf("Expected connection toast, got %q", res.stderr)
	}
}

func TestSend_BlankText(t *testing.T) {
	srv := newBackend(t, backend.StatusSuccess, "unused")
	cfgPath := writeTestConfig(t, srv.URL)

	res := runCLI(t, nil, "--config", cfgPath, "send", "   ")
	if res.err == nil || errors.Is(res.err, errExitFailure) {
		t.Errorf("Expected a reported error for blank text, got %v", res.err)
	}
}

func TestBackendURLPrecedence(t *testing.T) {
	good := newBackend(t, backend.StatusSuccess, "ok")
	cfgPath := writeTestConfig(t, "http://127.0.0.1:1")

	env := map[string]string{config.EnvBackendURL: good.URL}
	if res := runCLI(t, env, "--config", cfgPath, "health"); res.err != nil {
		t.Fatalf("Expected env URL to win over the file, got %v (%q)", res.err, res.stdout)
	}

	env = map[string]string{config.EnvBackendURL: "http://127.0.0.1:1"}
	res := runCLI(t, env, "--config", cfgPath, "--backend-url", good.URL, "health")
	if res.err != nil {
		t.Fatalf("Expected flag to win over env, got %v", res.err)
	}
	if !strings.Contains(res.stdout, "Connected: "+good.URL) {
		t.Errorf("Unexpected output %q", res.stdout)
	}
}

func TestHealth_Disconnected(t *testing.T) {
	srv := newBackend(t, backend.StatusSuccess, "")
	url := srv.URL
	srv.Close()
	cfgPath := writeTestConfig(t, url)

	res := runCLI(t, nil, "--config", cfgPath, "health")
	if !errors.Is(res.err, errExitFailure) {
		t.Fatalf("Expected exit failure, got %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "Disconnected: ") {
		t.Errorf("Unexpected output %q", res.stdout)
	}
}

func TestProbe(t *testing.T) {
	srv := newBackend(t, backend.StatusSuccess, "")
	cfgPath := writeTestConfig(t, srv.URL)

	res := runCLI(t, nil, "--config", cfgPath, "probe")
	if res.err != nil {
		t.Fatalf("probe failed: %v", res.err)
	}
	var got backend.ProbeResult
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", res.stdout, err)
	}
	if got.Status != http.StatusOK {
		t.Errorf("Expected 200, got %d", got.Status)
	}

	res = runCLI(t, nil, "--config", cfgPath, "probe", "missing")
	if res.err != nil {
		t.Fatalf("probe failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, `"status": 404`) {
		t.Errorf("Expected 404 status, got %q", res.stdout)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	res := runCLI(t, nil, "--config", path, "config", "path")
	if strings.TrimSpace(res.stdout) != path {
		t.Errorf("Expected %q, got %q", path, res.stdout)
	}

	if res := runCLI(t, nil, "--config", path, "config", "init"); res.err != nil {
		t.Fatalf("config init failed: %v", res.err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected config file written: %v", err)
	}
	if res := runCLI(t, nil, "--config", path, "config", "init"); res.err == nil {
		t.Error("Expected init to refuse to overwrite")
	}
	if res := runCLI(t, nil, "--config", path, "config", "init", "--force"); res.err != nil {
		t.Errorf("Expected --force to overwrite, got %v", res.err)
	}
}

func TestConfigShowAppliesOverrides(t *testing.T) {
	cfgPath := writeTestConfig(t, "http://file.example")
	env := map[string]string{config.EnvMaxRetries: "7"}

	res := runCLI(t, env, "--config", cfgPath, "--log-level", "debug", "config", "show")
	if res.err != nil {
		t.Fatalf("config show failed: %v", res.err)
	}
	var got config.Config
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("Expected JSON, got %q: %v", res.stdout, err)
	}
	if got.BackendURL != "http://file.example" || got.MaxRetries != 7 || got.LogLevel != "debug" {
		t.Errorf("Unexpected effective config %+v", got)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	cfgPath := writeTestConfig(t, "http://ok.example")
	env := map[string]string{config.EnvMaxRetries: "many"}

	res := runCLI(t, env, "--config", cfgPath, "health")
	if res.err == nil || errors.Is(res.err, errExitFailure) {
		t.Errorf("Expected a reported config error, got %v", res.err)
	}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, nil, "version")
	if !strings.HasPrefix(res.stdout, "taskchat version ") {
		t.Errorf("Unexpected version output %q", res.stdout)
	}
}

func TestRenderReply_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := renderReply(&buf, "a\x1b[31mb", false); got != "ab" {
		t.Errorf("Expected stripped plain text, got %q", got)
	}
}

func TestApplyFlagsOverridesReloadedConfig(t *testing.T) {
	a := newApp(&bytes.Buffer{}, &bytes.Buffer{}, func(string) string { return "" })
	a.backendURL = "https://tunnel.example"
	a.logLevel = "debug"

	reloaded := config.Default()
	reloaded.BackendURL = "http://file.example"
	reloaded.MaxRetries = 9

	got := a.applyFlags(reloaded)
	if got.BackendURL != "https://tunnel.example" || got.LogLevel != "debug" {
		t.Errorf("Expected flags to win, got %+v", got)
	}
	if got.MaxRetries != 9 {
		t.Errorf("Expected non-flag fields from the file, got %d", got.MaxRetries)
	}

	none := newApp(&bytes.Buffer{}, &bytes.Buffer{}, nil)
	if got := none.applyFlags(reloaded); got != reloaded {
		t.Errorf("Expected config unchanged without flags, got %+v", got)
	}
}
