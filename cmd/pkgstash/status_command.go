package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"pkgstash/internal/ledger"
	"pkgstash/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon state, preflight checks, and ledger summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := stdoutIsTTY()

			running, lockErr := daemonLockHeld(cfg.LockPath())

			store := ledger.New(cfg.Paths.LedgerPath, nil)
			ledgerDetail := ""
			if err := store.Load(); err != nil {
				ledgerDetail = fmt.Sprintf("unreadable (%v)", err)
			} else {
				ledgerDetail = strconv.Itoa(store.Count()) + " entries"
			}

			daemonState := "stopped"
			if running {
				daemonState = "running"
			}
			if lockErr != nil {
				daemonState = fmt.Sprintf("unknown (%v)", lockErr)
			}

			rows := [][]string{
				{"Config", ctx.configPath},
				{"Daemon", daemonState},
				{"Monitored directory", cfg.Paths.MonitorDir},
				{"Destination", cfg.DestDir()},
				{"Extensions", strings.Join(cfg.Monitor.FileExtensions, " ")},
				{"Check interval", fmt.Sprintf("%ds", cfg.Monitor.CheckInterval)},
				{"Stable threshold", fmt.Sprintf("%ds", cfg.Monitor.StableThreshold)},
				{"Ledger", fmt.Sprintf("%s (%s)", cfg.Paths.LedgerPath, ledgerDetail)},
			}
			fmt.Fprintln(out, renderTable([]string{"Item", "Value"}, rows))

			checkRows := make([][]string, 0, 3)
			for _, result := range preflight.Run(cfg) {
				checkRows = append(checkRows, []string{
					result.Name,
					checkMark(result.Passed, colorize),
					result.Detail,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "State", "Detail"}, checkRows))
			return nil
		},
	}
}

// daemonLockHeld probes the daemon lock without disturbing a running
// instance: if the non-blocking acquire succeeds the daemon is not
// running and the lock is released immediately.
func daemonLockHeld(path string) (bool, error) {
	probe := flock.New(path)
	acquired, err := probe.TryLock()
	if err != nil {
		return false, err
	}
	if acquired {
		_ = probe.Unlock()
		return false, nil
	}
	return true, nil
}
