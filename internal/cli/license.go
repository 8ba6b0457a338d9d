package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/posguard/licadmin/internal/domain"
	"github.com/posguard/licadmin/internal/output"
)

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Manage software licenses",
}

var licenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List licenses",
	RunE:  runLicenseList,
}

var licenseGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one license",
	Args:  cobra.ExactArgs(1),
	RunE:  runLicenseGet,
}

var licenseCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue a new license",
	RunE:  runLicenseCreate,
}

var licenseRevokeCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke a license and its activations",
	Args:  cobra.ExactArgs(1),
	RunE:  runLicenseRevoke,
}

func init() {
	rootCmd.AddCommand(licenseCmd)
	licenseCmd.AddCommand(licenseListCmd, licenseGetCmd, licenseCreateCmd, licenseRevokeCmd, licenseExportCmd)

	addListFlags(licenseListCmd)

	licenseCreateCmd.Flags().String("customer", "", "customer name")
	licenseCreateCmd.Flags().String("plan", "", "plan identifier")
	licenseCreateCmd.Flags().Int("devices", 1, "device limit")
	licenseCreateCmd.Flags().String("expires", "", "expiry date (YYYY-MM-DD, omit for perpetual)")
	_ = licenseCreateCmd.MarkFlagRequired("customer")
	_ = licenseCreateCmd.MarkFlagRequired("plan")
}

// addListFlags attaches the shared pagination/filter flags.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("page-size", 25, "rows per page")
	cmd.Flags().String("search", "", "free-text search")
	cmd.Flags().String("status", "", "filter by status")
	cmd.Flags().String("sort", "", "sort field")
	cmd.Flags().Bool("desc", false, "sort descending")
}

func listParamsFromFlags(cmd *cobra.Command) domain.ListParams {
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	sortBy, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")
	return domain.ListParams{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		Status:   status,
		SortBy:   sortBy,
		SortDesc: desc,
	}
}

func runLicenseList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	list, err := client.ListLicenses(cmd.Context(), listParamsFromFlags(cmd))
	if err != nil {
		return err
	}

	table := output.NewTable([]string{"ID", "Key", "Customer", "Plan", "Status", "Devices", "Expires"})
	for _, l := range list.Items {
		table.AddRow(licenseRow(l))
	}
	table.Render()
	printer.Infof("%d of %d licenses", len(list.Items), list.Total)
	return nil
}

func runLicenseGet(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	lic, err := client.GetLicense(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printer.Infof("ID:          %s", lic.ID)
	printer.Infof("Key:         %s", lic.Key)
	printer.Infof("Customer:    %s", lic.Customer)
	printer.Infof("Plan:        %s", lic.Plan)
	printer.Infof("Status:      %s", printer.LicenseStatus(lic.Status))
	printer.Infof("Devices:     %d/%d", lic.Activations, lic.DeviceLimit)
	printer.Infof("Issued:      %s", lic.IssuedAt.Format(time.RFC3339))
	if !lic.ExpiresAt.IsZero() {
		printer.Infof("Expires:     %s", lic.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func runLicenseCreate(cmd *cobra.Command, args []string) error {
	customer, _ := cmd.Flags().GetString("customer")
	plan, _ := cmd.Flags().GetString("plan")
	devices, _ := cmd.Flags().GetInt("devices")
	expires, _ := cmd.Flags().GetString("expires")

	req := domain.LicenseRequest{
		Customer:    customer,
		Plan:        plan,
		DeviceLimit: devices,
	}
	if expires != "" {
		t, err := time.Parse("2006-01-02", expires)
		if err != nil {
			return fmt.Errorf("invalid expiry date %q: %w", expires, err)
		}
		req.ExpiresAt = &t
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	lic, err := client.CreateLicense(cmd.Context(), req)
	if err != nil {
		return err
	}
	printer.Successf("License %s created for %s (key %s)", lic.ID, lic.Customer, lic.Key)
	return nil
}

func runLicenseRevoke(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.RevokeLicense(cmd.Context(), args[0]); err != nil {
		return err
	}
	printer.Successf("License %s revoked", args[0])
	return nil
}

func licenseRow(l domain.License) []string {
	expires := "-"
	if !l.ExpiresAt.IsZero() {
		expires = l.ExpiresAt.Format("2006-01-02")
	}
	return []string{
		l.ID,
		l.Key,
		l.Customer,
		l.Plan,
		printer.LicenseStatus(l.Status),
		strconv.Itoa(l.Activations) + "/" + strconv.Itoa(l.DeviceLimit),
		expires,
	}
}
