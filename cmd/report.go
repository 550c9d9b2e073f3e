package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/traincore/certassist/internal/report"
)

var (
	reportDays  int
	reportLimit int
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export compliance reports as xlsx",
}

var reportExpiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "Export certificates expiring within a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := report.NewExporter(st).ExportExpiring(ctx, reportOut, reportDays, reportLimit)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d rows to %s\n", n, reportOut)
		return nil
	},
}

var reportAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Export the recent audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := report.NewExporter(st).ExportAudit(ctx, reportOut, reportLimit)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d rows to %s\n", n, reportOut)
		return nil
	},
}

func init() {
	reportCmd.PersistentFlags().StringVar(&reportOut, "out", "report.xlsx", "output file")
	reportCmd.PersistentFlags().IntVar(&reportLimit, "limit", 1000, "maximum rows")
	reportExpiringCmd.Flags().IntVar(&reportDays, "days", 90, "expiry window in days")
	reportCmd.AddCommand(reportExpiringCmd)
	reportCmd.AddCommand(reportAuditCmd)
	rootCmd.AddCommand(reportCmd)
}
