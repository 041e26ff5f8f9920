package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sebas2906/portfolio/internal/logger"
	"github.com/sebas2906/portfolio/pkg/chat"
	"github.com/sebas2906/portfolio/pkg/store"
)

var newConversation bool

var (
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	contentStyle   = lipgloss.NewStyle().Padding(0, 2)
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Talk to the portfolio agent from the command line",
	Long: `Send a message to the chat API and print the reply. Without a message,
read one message per line from stdin until EOF.

The conversation continues across runs unless --new or --ephemeral is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var log logger.Logger = logger.NewIsolatedLogger(cfg.App.LogFilePath, false)
		if cfg.App.Verbose {
			log = logger.NewZapLogger(cfg.App.LogFilePath, true)
		}
		defer log.Sync()

		kv := openStore(cfg, log)
		defer kv.Close()

		ctx := cmd.Context()
		if newConversation {
			if err := kv.Set(ctx, store.ConversationKey, ""); err != nil {
				return err
			}
		}

		widget := newWidget(cfg, kv, log)
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			ask(ctx, widget, out, strings.Join(args, " "))
			return nil
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprint(out, promptStyle.Render("> "))
		for scanner.Scan() {
			ask(ctx, widget, out, scanner.Text())
			fmt.Fprint(out, promptStyle.Render("> "))
		}
		fmt.Fprintln(out)
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().BoolVar(&newConversation, "new", false, "Start a new conversation")
	rootCmd.AddCommand(chatCmd)
}

// ask submits text, waits for the exchange to finish and prints the new
// transcript entries. Blank text prints nothing.
func ask(ctx context.Context, w *chat.Widget, out io.Writer, text string) {
	before := len(w.View().Transcript)
	done, ok := w.Submit(ctx, text)
	if !ok {
		return
	}
	<-done

	v := w.View()
	for _, e := range v.Transcript[before:] {
		fmt.Fprintln(out, renderEntry(e))
	}
	if v.Status != "" {
		fmt.Fprintln(out, metaStyle.Render(v.Status))
	}
}

func renderEntry(e chat.Entry) string {
	label := userStyle.Render("You")
	if e.Role == chat.RoleAssistant {
		label = assistantStyle.Render("Agent")
	}
	return label + " " + metaStyle.Render(e.At.Format("15:04:05")) + "\n" + contentStyle.Render(e.Text)
}
