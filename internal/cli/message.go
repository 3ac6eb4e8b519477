package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/config"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/transport"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send and manage messages",
	}

	cmd.AddCommand(newMessageSendCmd())
	return cmd
}

func newMessageSendCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Run a message through the assistant locally and print the reply",
		Long:  "Processes a message against the local database without touching WhatsApp. Outbound sends (owner alerts, reminders) are captured and printed instead of delivered.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}

			if err := paths.EnsureDirs(); err != nil {
				return err
			}
			dbPath := cfg.Store.Path
			if dbPath == "" {
				dbPath = paths.DB
			}
			db, err := store.Open(dbPath, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			mock := transport.NewMock()
			application := buildApp(cfg, db, mock, newNLUClient(cfg))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reply := application.orch.ProcessMessage(ctx, domain.InboundMessage{
				ID:         "cli-msg",
				EndpointID: from,
				Kind:       domain.MessageText,
				Content:    text,
				Timestamp:  time.Now(),
			})

			fmt.Println(reply.Text)
			for _, b := range reply.Buttons {
				fmt.Printf("  [%s] %s\n", b.ID, b.Title)
			}

			// side-channel sends the turn produced, e.g. owner approvals
			for _, sent := range mock.Sent {
				if sent.To == from {
					continue
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "\n[would send to %s]\n%s\n", sent.To, sent.Text)
				for _, b := range sent.Buttons {
					fmt.Fprintf(cmd.ErrOrStderr(), "  [%s] %s\n", b.ID, b.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "cli", "sender id to attribute the message to")

	return cmd
}
