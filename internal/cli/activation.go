package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/posguard/licadmin/internal/output"
)

var activationCmd = &cobra.Command{
	Use:   "activation",
	Short: "Track and revoke device activations",
}

var activationListCmd = &cobra.Command{
	Use:   "list <license-id>",
	Short: "List a license's device activations",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivationList,
}

var activationRevokeCmd = &cobra.Command{
	Use:   "revoke <license-id> <device-id>",
	Short: "Detach a device from a license",
	Args:  cobra.ExactArgs(2),
	RunE:  runActivationRevoke,
}

func init() {
	rootCmd.AddCommand(activationCmd)
	activationCmd.AddCommand(activationListCmd, activationRevokeCmd, activationWatchCmd)
	addListFlags(activationListCmd)
}

func runActivationList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	list, err := client.ListActivations(cmd.Context(), args[0], listParamsFromFlags(cmd))
	if err != nil {
		return err
	}

	table := output.NewTable([]string{"Device ID", "Device", "Activated", "Revoked"})
	for _, a := range list.Items {
		revoked := ""
		if a.Revoked {
			revoked = "yes"
		}
		table.AddRow([]string{
			a.DeviceID,
			a.DeviceName,
			a.ActivatedAt.Format(time.RFC3339),
			revoked,
		})
	}
	table.Render()
	printer.Infof("%d of %d activations", len(list.Items), list.Total)
	return nil
}

func runActivationRevoke(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.RevokeActivation(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	printer.Successf("Device %s detached from license %s", args[1], args[0])
	return nil
}
