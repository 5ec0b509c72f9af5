package ui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"taskchat/pkg/backend"
	"taskchat/pkg/chat"
	"taskchat/pkg/commands"
	"taskchat/pkg/config"
	"taskchat/pkg/logging"
	"taskchat/pkg/netwatch"
	"taskchat/pkg/ui/components/chatpanel"
	"taskchat/pkg/ui/components/devpanel"
	"taskchat/pkg/ui/components/palette"
	"taskchat/pkg/ui/components/result"
	"taskchat/pkg/ui/components/statusbar"
	"taskchat/pkg/ui/components/toast"
	"taskchat/pkg/ui/components/welcome"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

// Notification texts raised by the UI itself.
const (
	NoticeDevActivated    = "Developer panel activated"
	NoticeSettingsReload  = "Backend settings reloaded"
	NoticeBackendDown     = "Backend unreachable"
	NoticeCopied          = "Copied last reply"
	NoticeCopyUnsupported = "Clipboard copy failed"
)

// Options wires a Model to its collaborators. Signals and Reloads may be nil.
// Override, when set, is applied to every reloaded config after the
// environment overrides.
type Options struct {
	Context   context.Context
	Config    config.Config
	Client    *backend.Client
	Session   *chat.Session
	Notifier  *toast.Notifier
	Signals   <-chan netwatch.Event
	Reloads   <-chan config.Config
	Getenv    func(string) string
	Override  func(config.Config) config.Config
	Clipboard io.Writer
	Now       func() time.Time
}

// Model represents the Bubble Tea application state
type Model struct {
	ctx      context.Context
	cfg      config.Config
	client   *backend.Client
	session  *chat.Session
	notifier *toast.Notifier
	signals  <-chan netwatch.Event
	reloads  <-chan config.Config
	getenv   func(string) string
	override func(config.Config) config.Config
	now      func() time.Time

	dispatcher *commands.Dispatcher
	secret     *chat.SecretCounter

	// UI Components
	chatPanel   *chatpanel.ChatPanel
	statusBar   *statusbar.StatusBarView
	toasts      *toast.Stack
	devPanel    *devpanel.Panel
	resultPanel *result.ResultPanel
	palette     *palette.CommandPalette
	clipboard   io.Writer

	// UI state
	width  int
	height int
	ready  bool
}

// NewModel creates a new Bubble Tea model
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	clipboard := opts.Clipboard
	if clipboard == nil {
		clipboard = os.Stdout
	}

	panel := chatpanel.New(opts.Config.MaxInputChars)
	panel.SetClipboardWriter(clipboard)

	bar := statusbar.NewStatusBarView()
	bar.SetBackendURL(opts.Client.BaseURL())

	dispatcher := commands.NewDispatcher()

	return Model{
		ctx:         ctx,
		cfg:         opts.Config,
		client:      opts.Client,
		session:     opts.Session,
		notifier:    opts.Notifier,
		signals:     opts.Signals,
		reloads:     opts.Reloads,
		getenv:      getenv,
		override:    opts.Override,
		now:         now,
		dispatcher:  dispatcher,
		secret:      chat.NewSecretCounter(),
		chatPanel:   panel,
		statusBar:   bar,
		toasts:      toast.NewStack(opts.Config.ToastDuration()),
		devPanel:    devpanel.New(opts.Client),
		resultPanel: result.NewResultPanel(),
		palette:     palette.NewCommandPalette(paletteCommands(dispatcher)...),
		clipboard:   clipboard,
	}
}

// Message types

type replyMsg struct {
	pending chat.Pending
	reply   chat.Reply
}

type completeMsg struct {
	pending chat.Pending
	reply   chat.Reply
}

type healthTickMsg struct{}

type healthDoneMsg struct {
	connected bool
	changed   bool
	manual    bool
}

type signalMsg struct {
	event netwatch.Event
}

type reloadMsg struct {
	cfg config.Config
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenNotifications(),
		m.checkHealth(false),
		m.scheduleHealth(),
		m.listenSignals(),
		m.listenReloads(),
	)
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		if !m.overlayVisible() {
			m.chatPanel.HandlePaste(msg.Content)
		}
		return m, nil

	case chatpanel.SubmitMsg:
		return m.submit(msg.Text)

	case replyMsg:
		wait := m.cfg.ThinkingDelay() - m.now().Sub(msg.pending.StartedAt)
		if wait > 0 {
			return m, tea.Tick(wait, func(time.Time) tea.Msg {
				return completeMsg(msg)
			})
		}
		return m.complete(msg.pending, msg.reply)

	case completeMsg:
		return m.complete(msg.pending, msg.reply)

	case spinner.TickMsg:
		return m, m.chatPanel.UpdateSpinner(msg)

	case toast.ShowMsg:
		return m, tea.Batch(m.toasts.Push(msg.Notification), m.listenNotifications())

	case toast.DismissMsg:
		m.toasts.Dismiss(msg.ID)
		return m, nil

	case healthTickMsg:
		return m, tea.Batch(m.checkHealth(false), m.scheduleHealth())

	case healthDoneMsg:
		m.statusBar.SetConnected(msg.connected)
		if msg.manual {
			switch {
			case !msg.connected:
				m.session.Notify(chat.KindError, NoticeBackendDown)
			case !msg.changed:
				m.session.Notify(chat.KindSuccess, chat.NoticeConnected)
			}
		}
		return m, nil

	case signalMsg:
		return m, tea.Batch(m.handleSignal(msg.event), m.listenSignals())

	case reloadMsg:
		m.applyConfig(msg.cfg)
		return m, m.listenReloads()

	case devpanel.ProbesDoneMsg:
		m.devPanel.HandleResults(msg)
		return m, nil

	case palette.SelectMsg:
		return m.submit(msg.Command)

	case devpanel.CloseMsg, result.CloseMsg, palette.CancelMsg:
		return m, nil

	case chatpanel.CopiedMsg:
		if msg.Err != nil {
			slog.Debug("copy_failed", "error", msg.Err.Error())
			m.session.Notify(chat.KindError, NoticeCopyUnsupported+": "+msg.Err.Error())
		} else {
			m.session.Notify(chat.KindSuccess, NoticeCopied)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return m, m.quit()
	case "ctrl+g":
		if m.secret.Press(m.now()) {
			return m, m.toggleDevPanel(true)
		}
		return m, nil
	}

	if m.resultPanel.IsVisible() {
		return m, m.resultPanel.Update(msg)
	}
	if m.devPanel.IsVisible() {
		return m, m.devPanel.Update(msg)
	}
	if m.palette.IsVisible() {
		return m, m.palette.Update(msg)
	}
	if key == "/" && m.chatPanel.Value() == "" && !m.chatPanel.IsBusy() {
		m.palette.Show()
		return m, nil
	}

	if text, ok := welcome.Suggestion(key); ok {
		if m.session.Len() == 0 && !m.chatPanel.IsBusy() {
			return m.submit(text)
		}
		return m, nil
	}

	return m, m.chatPanel.Update(msg)
}

// submit dispatches slash commands locally and sends everything else.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	if h, ok := m.dispatcher.Lookup(text); ok {
		m.chatPanel.ClearInput()
		slog.Debug("command_dispatched", "command", h.Name())
		return m, m.runCommand(h.Execute(commands.NewContext(m.session, m.client.BaseURL())))
	}

	p, ok := m.session.Begin(text)
	if !ok {
		return m, nil
	}
	m.chatPanel.ClearInput()
	m.chatPanel.SetMessages(m.session.Messages())
	m.statusBar.SetMessage("Waiting for reply...")

	sess := m.session
	ctx := m.ctx
	relay := func() tea.Msg {
		return replyMsg{pending: p, reply: sess.Relay(ctx, p)}
	}
	return m, tea.Batch(m.chatPanel.SetBusy(true), relay)
}

func (m Model) complete(p chat.Pending, r chat.Reply) (tea.Model, tea.Cmd) {
	m.session.Complete(p, r)
	m.chatPanel.SetMessages(m.session.Messages())
	m.statusBar.SetMessage("")
	m.statusBar.SetConnected(m.session.Connected())
	return m, m.chatPanel.SetBusy(false)
}

func (m Model) runCommand(res *commands.Result) tea.Cmd {
	if res == nil {
		return nil
	}
	if res.Error != nil {
		m.resultPanel.ShowError(res.Title, res.Error.Error())
		return nil
	}

	switch res.Action {
	case commands.ResultActionShow:
		m.resultPanel.Show(res.Title, res.Content)
	case commands.ResultActionCheckHealth:
		return m.checkHealth(true)
	case commands.ResultActionToggleDev:
		return m.toggleDevPanel(false)
	case commands.ResultActionCopy:
		return chatpanel.Copy(m.clipboard, res.Content)
	case commands.ResultActionQuit:
		return m.quit()
	}
	return nil
}

func (m Model) toggleDevPanel(secret bool) tea.Cmd {
	wasVisible := m.devPanel.IsVisible()
	cmd := m.devPanel.Toggle(m.cfg, m.client.BaseURL())
	if secret && !wasVisible {
		m.session.Notify(chat.KindInfo, NoticeDevActivated)
	}
	slog.Debug("devpanel_toggled", "visible", m.devPanel.IsVisible(), "secret", secret)
	return cmd
}

func (m Model) handleSignal(ev netwatch.Event) tea.Cmd {
	sig := chat.SignalOffline
	if ev.Online {
		sig = chat.SignalOnline
	}
	sess := m.session
	ctx := m.ctx
	return func() tea.Msg {
		sess.HandleSignal(ctx, sig)
		return healthDoneMsg{connected: sess.Connected()}
	}
}

func (m *Model) applyConfig(cfg config.Config) {
	cfg, err := cfg.ApplyEnv(m.getenv)
	if err != nil {
		slog.Warn("config_reload_env_failed", "error", err.Error())
		return
	}
	if m.override != nil {
		cfg = m.override(cfg)
	}
	if loggingChanged(m.cfg, cfg) {
		if _, err := logging.Init(cfg); err != nil {
			slog.Warn("logging_reinit_failed", "error", err.Error())
		}
	}
	m.cfg = cfg
	m.client.Apply(cfg)
	m.toasts.SetDuration(cfg.ToastDuration())
	m.statusBar.SetBackendURL(m.client.BaseURL())
	m.devPanel.SetConfig(cfg, m.client.BaseURL())
	slog.Info("config_reloaded", "backend_url", m.client.BaseURL(), "max_retries", cfg.MaxRetries)
	m.session.Notify(chat.KindInfo, NoticeSettingsReload)
}

func loggingChanged(old, cfg config.Config) bool {
	return old.LogLevel != cfg.LogLevel || old.LogFormat != cfg.LogFormat || old.LogFile != cfg.LogFile
}

func (m Model) quit() tea.Cmd {
	if m.notifier != nil {
		m.notifier.Close()
	}
	return tea.Quit
}

func (m Model) checkHealth(manual bool) tea.Cmd {
	sess := m.session
	ctx := m.ctx
	return func() tea.Msg {
		was := sess.Connected()
		connected := sess.CheckHealth(ctx)
		return healthDoneMsg{connected: connected, changed: was != connected, manual: manual}
	}
}

func (m Model) scheduleHealth() tea.Cmd {
	interval := m.cfg.HealthInterval()
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

func (m Model) listenNotifications() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	return m.notifier.Listen()
}

func (m Model) listenSignals() tea.Cmd {
	if m.signals == nil {
		return nil
	}
	ch := m.signals
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return signalMsg{event: ev}
	}
}

func (m Model) listenReloads() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{cfg: cfg}
	}
}

func (m Model) overlayVisible() bool {
	return m.resultPanel.IsVisible() || m.devPanel.IsVisible() || m.palette.IsVisible()
}

func paletteCommands(d *commands.Dispatcher) []palette.Command {
	handlers := d.Handlers()
	out := make([]palette.Command, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, palette.Command{Name: h.Name(), Description: h.Description()})
	}
	return out
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}
