package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/recur/internal/config"
	"github.com/MrJamesThe3rd/recur/internal/logging"
)

type rootOptions struct {
	cfg       *config.Config
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "recur",
		Short: "Find and schedule recurring charges in bank statements",
		Long: `recur reads bank statements (PDF, CSV, OFX or plain text), finds the
subscriptions and direct debits in them and keeps a calendar of when each
one is next due.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level, format := cfg.Log.Level, cfg.Log.Format
			if cmd.Flags().Changed("log-level") {
				level = opts.logLevel
			}

			if cmd.Flags().Changed("log-format") {
				format = opts.logFormat
			}

			if _, err := logging.SetupWriter(cmd.ErrOrStderr(), level, format); err != nil {
				return err
			}

			opts.cfg = cfg

			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(scanCmd(opts))
	root.AddCommand(calendarCmd(opts))
	root.AddCommand(exportCmd(opts))
	root.AddCommand(aliasCmd(opts))
	root.AddCommand(migrateCmd(opts))

	return root
}
