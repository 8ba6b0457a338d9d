package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/posguard/licadmin/internal/domain"
	"github.com/posguard/licadmin/internal/output"
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Record and review payments",
}

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments",
	RunE:  runPaymentList,
}

var paymentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a payment against a subscription",
	Long: `Records a payment. A client-generated idempotency key guards the
request, so retrying after a network failure cannot double-book it.

Example:
  licadmin payment add --subscription sub_42 --amount 19900 --method card`,
	RunE: runPaymentAdd,
}

func init() {
	rootCmd.AddCommand(paymentCmd)
	paymentCmd.AddCommand(paymentListCmd, paymentAddCmd)
	addListFlags(paymentListCmd)

	paymentAddCmd.Flags().String("subscription", "", "subscription ID")
	paymentAddCmd.Flags().Int64("amount", 0, "amount in cents")
	paymentAddCmd.Flags().String("method", "", "payment method (card, transfer, cash)")
	paymentAddCmd.Flags().String("reference", "", "external reference")
	_ = paymentAddCmd.MarkFlagRequired("subscription")
	_ = paymentAddCmd.MarkFlagRequired("amount")
	_ = paymentAddCmd.MarkFlagRequired("method")
}

func runPaymentList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	list, err := client.ListPayments(cmd.Context(), listParamsFromFlags(cmd))
	if err != nil {
		return err
	}

	table := output.NewTable([]string{"ID", "Subscription", "Amount", "Method", "Reference", "Paid"})
	for _, p := range list.Items {
		table.AddRow([]string{
			p.ID,
			p.SubscriptionID,
			output.Money(p.AmountCents),
			p.Method,
			p.Reference,
			p.PaidAt.Format(time.RFC3339),
		})
	}
	table.Render()
	printer.Infof("%d of %d payments", len(list.Items), list.Total)
	return nil
}

func runPaymentAdd(cmd *cobra.Command, args []string) error {
	subscription, _ := cmd.Flags().GetString("subscription")
	amount, _ := cmd.Flags().GetInt64("amount")
	method, _ := cmd.Flags().GetString("method")
	reference, _ := cmd.Flags().GetString("reference")

	client, err := newClient()
	if err != nil {
		return err
	}
	payment, err := client.CreatePayment(cmd.Context(), domain.PaymentRequest{
		SubscriptionID: subscription,
		AmountCents:    amount,
		Method:         method,
		Reference:      reference,
	})
	if err != nil {
		return err
	}
	printer.Successf("Payment %s recorded: %s via %s", payment.ID, output.Money(payment.AmountCents), payment.Method)
	return nil
}
