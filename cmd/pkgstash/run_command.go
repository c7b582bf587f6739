package main

import (
	"github.com/spf13/cobra"

	"pkgstash/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var jsonLogs bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitor daemon in the foreground",
		Long: "Run starts the poll loop: scan the monitored directory, wait for files " +
			"to stop changing, and copy each one to the backup destination exactly once. " +
			"Blocks until SIGINT or SIGTERM; the backup ledger is flushed before exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel: logLevel,
				JSONLogs: jsonLogs,
			})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override configured log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Force JSON log output")
	return cmd
}
