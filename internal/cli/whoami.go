package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().Bool("refresh", false, "fetch the profile from the server")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")

	client, err := newClient()
	if err != nil {
		return err
	}

	if refresh {
		if _, err := client.Me(cmd.Context()); err != nil {
			return err
		}
	}

	snap := client.Session().Snapshot()
	if !snap.Authenticated {
		printer.Infof("Not logged in.")
		return nil
	}
	if snap.User != nil {
		printer.Infof("Logged in as %s (%s)", snap.User.Name, snap.User.Phone)
	} else {
		printer.Infof("Logged in (no profile data cached).")
	}
	if !snap.ExpiresAt.IsZero() {
		printer.Infof("Session expires %s (%s from now)",
			snap.ExpiresAt.Format(time.RFC3339),
			time.Until(snap.ExpiresAt).Round(time.Second))
	}
	return nil
}
