package cli

import (
	"github.com/spf13/cobra"

	"github.com/posguard/licadmin/internal/output"
)

var subscriptionCmd = &cobra.Command{
	Use:   "subscription",
	Short: "Manage annual subscriptions",
}

var subscriptionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions",
	RunE:  runSubscriptionList,
}

var subscriptionRenewCmd = &cobra.Command{
	Use:   "renew <id>",
	Short: "Renew a subscription for another term",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriptionRenew,
}

func init() {
	rootCmd.AddCommand(subscriptionCmd)
	subscriptionCmd.AddCommand(subscriptionListCmd, subscriptionRenewCmd)
	addListFlags(subscriptionListCmd)
}

func runSubscriptionList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	list, err := client.ListSubscriptions(cmd.Context(), listParamsFromFlags(cmd))
	if err != nil {
		return err
	}

	table := output.NewTable([]string{"ID", "License", "Plan", "Status", "Renews", "Amount"})
	for _, s := range list.Items {
		table.AddRow([]string{
			s.ID,
			s.LicenseID,
			s.Plan,
			s.Status,
			s.RenewsAt.Format("2006-01-02"),
			output.Money(s.AmountCents),
		})
	}
	table.Render()
	printer.Infof("%d of %d subscriptions", len(list.Items), list.Total)
	return nil
}

func runSubscriptionRenew(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	sub, err := client.RenewSubscription(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printer.Successf("Subscription %s renewed until %s", sub.ID, sub.RenewsAt.Format("2006-01-02"))
	return nil
}
