package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/config"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/transport"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/webhook"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the WhatsApp webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Webhook.Port = port
			}
			if bind != "" {
				cfg.Webhook.Bind = bind
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				for _, e := range errs {
					log.Error().Msg(e.Error())
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(errs))
			}
			if cfg.WhatsApp.AccessToken == "" || cfg.WhatsApp.PhoneNumberID == "" {
				return fmt.Errorf("whatsapp.accessToken and whatsapp.phoneNumberId are required to serve")
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
			log.Info().Str("path", dbPath).Msg("database open")

			tr := transport.NewWhatsAppClient(transport.WhatsAppOptions{
				AccessToken:   cfg.WhatsApp.AccessToken,
				PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
				APIVersion:    cfg.WhatsApp.APIVersion,
			}, log)

			application := buildApp(cfg, db, tr, newNLUClient(cfg))

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := application.sched.Start(ctx); err != nil {
				return fmt.Errorf("starting scheduler: %w", err)
			}
			defer application.sched.Stop()

			srv := webhook.NewServer(cfg, application.orch, tr, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override webhook port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan)")

	return cmd
}
