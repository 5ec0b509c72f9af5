// Package styles provides the shared palette and lipgloss styles for the
// taskchat terminal UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (purple)
	ColorAccent = lipgloss.Color("141")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196") // Error messages
	ColorWarning = lipgloss.Color("214") // Warnings
	ColorSuccess = lipgloss.Color("42")  // Success messages
	ColorInfo    = lipgloss.Color("75")  // Informational toasts

	// Code/syntax colors
	ColorCode        = lipgloss.Color("213") // Code text
	ColorCodeBg      = lipgloss.Color("235") // Code background
	ColorPlaceholder = lipgloss.Color("240") // Placeholder text
	ColorLink        = lipgloss.Color("39")  // Hyperlinks

	// Chat roles
	ColorUser = lipgloss.Color("117")
	ColorBot  = lipgloss.Color("183")

	// Border colors
	ColorBorder      = lipgloss.Color("141") // Default border (matches accent)
	ColorBorderMuted = lipgloss.Color("62")  // Muted border
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded box for overlays and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// BoxStyleCompact has less padding
	BoxStyleCompact = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)

	// ChatBoxStyle frames the transcript and input
	ChatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderMuted)
)

// Text styles
var (
	// TitleStyle for panel/section titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// TextStyle for normal text
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// TextMutedStyle for secondary/helper text
	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// TextBoldStyle for emphasized text
	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// TextItalicStyle for *emphasis*
	TextItalicStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	// LinkStyle for hyperlinks
	LinkStyle = lipgloss.NewStyle().
			Foreground(ColorLink).
			Underline(true)
)

// Chat transcript styles
var (
	UserPrefixStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	BotPrefixStyle = lipgloss.NewStyle().
			Foreground(ColorBot).
			Bold(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorPlaceholder)

	// CounterStyle for the n/limit character counter
	CounterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// CounterLimitStyle once the input is at its limit
	CounterLimitStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Selection and highlighting
var (
	// SelectedStyle for highlighted/selected items
	SelectedStyle = lipgloss.NewStyle().
		Foreground(ColorTextBright).
		Background(ColorAccent).
		Bold(true)
)

// Form styles
var (
	// LabelStyle for key/value labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Width(20)

	// ValueStyle for key/value values
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Feedback styles
var (
	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// SuccessStyle for successful results
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// FooterStyle for footer/help text
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Toast styles
var (
	toastBase = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	ToastSuccessStyle = toastBase.BorderForeground(ColorSuccess).Foreground(ColorSuccess)
	ToastErrorStyle   = toastBase.BorderForeground(ColorError).Foreground(ColorError)
	ToastInfoStyle    = toastBase.BorderForeground(ColorInfo).Foreground(ColorInfo)
)

// Code styles
var (
	// CodeStyle for code spans and blocks
	CodeStyle = lipgloss.NewStyle().
		Foreground(ColorCode).
		Background(ColorCodeBg)
)

// Status bar styles
var (
	// StatusBarStyle is the default status bar style (purple theme)
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Background(lipgloss.Color("#7D56F4"))

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Background(lipgloss.Color("#7D56F4"))
)

// Welcome message styles
var (
	// WelcomeBorderStyle for welcome box borders
	WelcomeBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99"))

	// WelcomeTitleStyle for welcome message title
	WelcomeTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)

	// WelcomeKeyStyle for keyboard shortcut keys
	WelcomeKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")).
			Bold(true)

	// WelcomeHeaderStyle for section headers
	WelcomeHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("248"))

	// WelcomeVersionStyle for version info (dimmed)
	WelcomeVersionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)
