package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the licensing API",
	Long: `Authenticate with phone and password, or with a one-time code sent
to the phone when --otp is given.

Examples:
  licadmin login --phone +15550100
  licadmin login --phone +15550100 --otp`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("phone", "", "account phone number")
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")
	loginCmd.Flags().Bool("otp", false, "log in with a one-time code instead of a password")
	_ = loginCmd.MarkFlagRequired("phone")
}

func runLogin(cmd *cobra.Command, args []string) error {
	phone, _ := cmd.Flags().GetString("phone")
	password, _ := cmd.Flags().GetString("password")
	useOTP, _ := cmd.Flags().GetBool("otp")

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if useOTP {
		if !cfg.OTPLoginEnabled {
			return fmt.Errorf("one-time code login is disabled")
		}
		if err := client.RequestOTP(ctx, phone); err != nil {
			return err
		}
		printer.Infof("A one-time code was sent to %s.", phone)
		code, err := prompt("Code: ")
		if err != nil {
			return err
		}
		user, err := client.VerifyOTP(ctx, phone, code)
		if err != nil {
			return err
		}
		printer.Successf("Logged in as %s (%s)", user.Name, user.Phone)
		return nil
	}

	if password == "" {
		password, err = prompt("Password: ")
		if err != nil {
			return err
		}
	}
	user, err := client.Login(ctx, phone, password)
	if err != nil {
		return err
	}
	printer.Successf("Logged in as %s (%s)", user.Name, user.Phone)
	return nil
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
