package cli

import (
	"github.com/spf13/cobra"

	"github.com/posguard/licadmin/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	stats, err := client.Stats(cmd.Context())
	if err != nil {
		return err
	}

	printer.Infof("Licenses:        %d total, %d active, %d expiring soon",
		stats.TotalLicenses, stats.ActiveLicenses, stats.ExpiringSoon)
	printer.Infof("Devices:         %d activated", stats.TotalDevices)
	printer.Infof("Open invoices:   %d", stats.OpenInvoices)
	printer.Infof("Revenue (month): %s", output.Money(stats.RevenueCentsMonth))
	return nil
}
