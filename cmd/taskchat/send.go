package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"taskchat/pkg/backend"
	"taskchat/pkg/chat"
	"taskchat/pkg/format"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultTermWidth = 80

func newSendCommand(a *app) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "send <text...>",
		Short: "Send one task and print the reply",
		Long: `Send one task through the same session logic as the terminal UI.

Notifications are written to stderr. The reply is printed with terminal
formatting when stdout is a terminal, as plain text otherwise, or as HTML
with --html. The exit status is 1 when the request fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}

			client := backend.NewFromConfig(a.cfg)
			notifier := chat.NotifierFunc(func(n chat.Notification) {
				fmt.Fprintf(a.stderr, "[%s] %s\n", n.Kind, n.Text)
			})
			sess := chat.NewSession(client, notifier)

			outcome := sess.Submit(cmd.Context(), strings.Join(args, " "))
			if outcome == chat.OutcomeRejected {
				return fmt.Errorf("nothing to send")
			}

			reply, _ := sess.LastBotMessage()
			fmt.Fprintln(a.stdout, renderReply(a.stdout, reply.Text, asHTML))

			if outcome != chat.OutcomeReplied {
				return errExitFailure
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "print the reply as sanitised HTML")
	return cmd
}

// renderReply picks the output format for a reply based on the flag and on
// whether w is a terminal.
func renderReply(w io.Writer, text string, asHTML bool) string {
	if asHTML {
		return format.HTML(text)
	}
	if width, ok := terminalWidth(w); ok {
		return strings.Join(format.Terminal(text, width), "\n")
	}
	return format.Plain(text)
}

func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth, true
	}
	return width, true
}
