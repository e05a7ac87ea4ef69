package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/stampwall/internal/audit"
)

var auditLogCmd = &cobra.Command{
	Use:   "audit-log <file>",
	Short: "Display the events recorded by render --audit-log",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditLog,
}

var (
	auditLogRaw   bool
	auditLogSource string
)

func init() {
	auditLogCmd.Flags().BoolVar(&auditLogRaw, "raw", false, "Output events as JSON lines")
	auditLogCmd.Flags().StringVar(&auditLogSource, "source", "", "Only show events for this source")
	rootCmd.AddCommand(auditLogCmd)
}

func runAuditLog(cmd *cobra.Command, args []string) error {
	auditLogger := audit.NewLogger(args[0])
	events, err := auditLogger.Events()
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	shown := 0
	for _, e := range events {
		if auditLogSource != "" && e.Source != auditLogSource {
			continue
		}
		shown++

		if auditLogRaw {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		line := fmt.Sprintf("[%s] %-9s", ts, e.Type)
		if e.Source != "" {
			line += " " + e.Source
		}
		if e.URL != "" {
			line += " " + e.URL
		}
		if e.Count > 0 {
			line += fmt.Sprintf(" count=%d", e.Count)
		}
		if e.Details != "" {
			line += " (" + e.Details + ")"
		}
		fmt.Fprintln(out, line)
	}

	if shown == 0 {
		logInfo("No events found in %s", args[0])
	}
	return nil
}
