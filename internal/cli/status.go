package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/config"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/version"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Bharat Biz-Agent %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:   %s\n", paths.Config)
			fmt.Printf("Data:     %s\n", paths.Data)
			fmt.Printf("Logs:     %s\n", paths.Logs)
			fmt.Println()

			// a missing config file yields defaults, not an error
			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:   error loading: %v\n", err)
				return nil
			}

			fmt.Printf("Business: %s (state %s)\n", cfg.Business.Name, cfg.Business.StateCode)
			if cfg.Business.OwnerPhone != "" {
				fmt.Printf("Owner:    %s\n", cfg.Business.OwnerPhone)
			}
			fmt.Printf("Webhook:  port=%d bind=%s\n", cfg.Webhook.Port, cfg.Webhook.Bind)

			if cfg.WhatsApp.PhoneNumberID != "" {
				fmt.Printf("WhatsApp: phone-number-id=%s api=%s\n", cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.APIVersion)
			} else {
				fmt.Println("WhatsApp: (not configured)")
			}
			if cfg.Sarvam.APIKey != "" {
				fmt.Printf("Sarvam:   chat=%s speech=%s\n", cfg.Sarvam.ChatModel, cfg.Sarvam.SpeechModel)
			} else {
				fmt.Println("Sarvam:   (no API key — keyword fallback only)")
			}

			fmt.Printf("Ledger:   threshold=₹%.0f limit=₹%.0f overdue=%dd\n",
				cfg.Ledger.LargeCreditThreshold, cfg.Ledger.DefaultCreditLimit, cfg.Ledger.OverdueDays)
			if cfg.Scheduler.Enabled {
				fmt.Printf("Alerts:   summary=%q lowstock=%q overdue=%q\n",
					cfg.Scheduler.DailySummaryCron, cfg.Scheduler.LowStockCron, cfg.Scheduler.OverdueCron)
			} else {
				fmt.Println("Alerts:   disabled")
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(errs))
				for _, e := range errs {
					fmt.Printf("  - %s\n", e)
				}
			}
			return nil
		},
	}
}
