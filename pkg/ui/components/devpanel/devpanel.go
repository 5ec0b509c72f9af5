// Package devpanel shows the active backend settings and lets the user probe
// backend endpoints by hand.
package devpanel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taskchat/pkg/backend"
	"taskchat/pkg/config"
	"taskchat/pkg/ui/components/utils"
	"taskchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"
)

// Endpoints probed by the panel.
const (
	HealthPath = "/health"
	RootPath   = "/"
)

// Prober performs a single GET against the backend.
type Prober interface {
	Probe(ctx context.Context, path string) (backend.ProbeResult, error)
}

// ProbeResult is the outcome of probing one endpoint.
type ProbeResult struct {
	Path    string
	Result  backend.ProbeResult
	Err     error
	Elapsed time.Duration
}

// Line renders the result as a single summary line.
func (r ProbeResult) Line() string {
	if r.Err != nil {
		return fmt.Sprintf("%s → error: %v", r.Path, r.Err)
	}
	return fmt.Sprintf("%s → HTTP %d (%s)", r.Path, r.Result.Status, r.Elapsed.Round(time.Millisecond))
}

// ProbesDoneMsg carries the results of a probe run, in request order.
type ProbesDoneMsg struct {
	Results []ProbeResult
}

// CloseMsg is sent when the panel is closed.
type CloseMsg struct{}

// ProbeCmd probes every path concurrently.
func ProbeCmd(p Prober, paths ...string) tea.Cmd {
	return func() tea.Msg {
		return ProbesDoneMsg{Results: ProbeAll(context.Background(), p, paths...)}
	}
}

// ProbeAll probes every path concurrently and returns one result per path.
// A failing probe does not cancel the others.
func ProbeAll(ctx context.Context, p Prober, paths ...string) []ProbeResult {
	results := make([]ProbeResult, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()
			res, err := p.Probe(ctx, path)
			results[i] = ProbeResult{Path: path, Result: res, Err: err, Elapsed: time.Since(start)}
			if err != nil {
				slog.Debug("devpanel_probe_failed", "path", path, "error", err.Error())
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Panel is the developer overlay.
type Panel struct {
	prober  Prober
	visible bool
	width   int
	height  int
	cfg     config.Config
	baseURL string
	results map[string]ProbeResult
	running map[string]bool
}

// New creates a hidden panel that probes through p.
func New(p Prober) *Panel {
	return &Panel{
		prober:  p,
		results: make(map[string]ProbeResult),
		running: make(map[string]bool),
	}
}

// Show opens the panel and probes both endpoints.
func (dp *Panel) Show(cfg config.Config, baseURL string) tea.Cmd {
	dp.cfg = cfg
	dp.baseURL = baseURL
	dp.visible = true
	return dp.probe(HealthPath, RootPath)
}

// Toggle opens a hidden panel or closes a visible one.
func (dp *Panel) Toggle(cfg config.Config, baseURL string) tea.Cmd {
	if dp.visible {
		dp.Hide()
		return nil
	}
	return dp.Show(cfg, baseURL)
}

// SetConfig refreshes the displayed settings.
func (dp *Panel) SetConfig(cfg config.Config, baseURL string) {
	dp.cfg = cfg
	dp.baseURL = baseURL
}

// Hide closes the panel.
func (dp *Panel) Hide() {
	dp.visible = false
}

// IsVisible reports whether the panel is open.
func (dp *Panel) IsVisible() bool {
	return dp.visible
}

// SetSize sets the panel dimensions.
func (dp *Panel) SetSize(width, height int) {
	dp.width = width
	dp.height = height
}

// Update handles keyboard input.
func (dp *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		dp.Hide()
		return func() tea.Msg { return CloseMsg{} }
	case "h":
		return dp.probe(HealthPath)
	case "r":
		return dp.probe(RootPath)
	}
	return nil
}

// HandleResults records a finished probe run.
func (dp *Panel) HandleResults(msg ProbesDoneMsg) {
	for _, r := range msg.Results {
		dp.results[r.Path] = r
		delete(dp.running, r.Path)
	}
}

// Result returns the last result for path.
func (dp *Panel) Result(path string) (ProbeResult, bool) {
	r, ok := dp.results[path]
	return r, ok
}

func (dp *Panel) probe(paths ...string) tea.Cmd {
	if dp.prober == nil {
		return nil
	}
	var todo []string
	for _, p := range paths {
		if !dp.running[p] {
			dp.running[p] = true
			todo = append(todo, p)
		}
	}
	if len(todo) == 0 {
		return nil
	}
	return ProbeCmd(dp.prober, todo...)
}

// View renders the panel.
func (dp *Panel) View() string {
	if !dp.visible {
		return ""
	}

	width := dp.width
	if width <= 0 {
		width = 80
	}
	boxWidth := width - 2
	if boxWidth > 90 {
		boxWidth = 90
	}
	if boxWidth < 20 {
		boxWidth = 20
	}
	// border plus padding on both sides
	contentWidth := boxWidth - 6

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render("🛠  Developer"))
	content.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"Backend URL", dp.baseURL},
		{"Max retries", fmt.Sprint(dp.cfg.MaxRetries)},
		{"Retry delay", dp.cfg.RetryDelay().String()},
		{"Thinking delay", dp.cfg.ThinkingDelay().String()},
		{"Request timeout", dp.cfg.RequestTimeout().String()},
		{"Health interval", dp.cfg.HealthInterval().String()},
		{"Config file", config.GetConfigPath()},
	}
	for _, f := range fields {
		label := styles.LabelStyle.Render(fmt.Sprintf("%-16s", f.label+":"))
		value := utils.Truncate(f.value, contentWidth-18)
		content.WriteString("  " + label + " " + styles.ValueStyle.Render(value) + "\n")
	}

	content.WriteString("\n")
	for _, path := range []string{HealthPath, RootPath} {
		content.WriteString(dp.renderProbe(path, contentWidth))
	}

	content.WriteString("\n")
	content.WriteString(styles.FooterStyle.Render("h Probe /health • r Probe / • Esc Close"))

	return styles.BoxStyle.Width(boxWidth).Render(content.String())
}

func (dp *Panel) renderProbe(path string, width int) string {
	if dp.running[path] {
		return styles.TextMutedStyle.Render(utils.Truncate(path+" → probing...", width)) + "\n"
	}
	r, ok := dp.results[path]
	if !ok {
		return styles.TextMutedStyle.Render(utils.Truncate(path+" → not probed", width)) + "\n"
	}

	var sb strings.Builder
	line := utils.Truncate(r.Line(), width)
	if r.Err != nil || !r.Result.OK() {
		sb.WriteString(styles.ErrorStyle.Render(line))
	} else {
		sb.WriteString(styles.SuccessStyle.Render(line))
	}
	sb.WriteString("\n")
	if r.Err != nil {
		return sb.String()
	}

	body := strings.Split(r.Result.Pretty(), "\n")
	const maxBodyLines = 6
	for i, l := range body {
		if i == maxBodyLines {
			sb.WriteString(styles.TextMutedStyle.Render("    …") + "\n")
			break
		}
		sb.WriteString(styles.CodeStyle.Render(utils.Truncate("    "+l, width)) + "\n")
	}
	return sb.String()
}
