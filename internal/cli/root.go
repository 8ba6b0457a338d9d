// Package cli contains the licadmin commands. Commands are thin: all state
// flows through the api client, the session store and the request cache.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/posguard/licadmin/internal/api"
	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/config"
	"github.com/posguard/licadmin/internal/credstore"
	"github.com/posguard/licadmin/internal/output"
	"github.com/posguard/licadmin/internal/session"
	"github.com/posguard/licadmin/internal/transport"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "licadmin",
	Short: "Admin console for the point-of-sale licensing service",
	Long: `licadmin manages software licenses, device activations, subscriptions
and payments against the POS licensing API.

Example usage:
  licadmin login --phone +15550100
  licadmin license list --status active
  licadmin payment add --subscription sub_42 --amount 19900 --method card
  licadmin stats`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.licadmin.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig merges the config file, LICADMIN_* environment and defaults.
func initConfig() error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".licadmin")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("LICADMIN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		logger.Debug("no config file loaded", "error", err)
	} else {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}

	cfg = config.LoadConfig()
	if v := viper.GetString("api.url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := viper.GetString("ws.url"); v != "" {
		cfg.WSBaseURL = v
	}
	if v := viper.GetString("credentials_file"); v != "" {
		cfg.CredentialsFile = expandHome(v)
	}

	printer = output.NewPrinter(!noColor)
	return nil
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// newClient wires the credential store, session store, cache and transport
// into an api client. The cache sweeper is only started by long-lived
// commands; one-shot commands do not need it.
func newClient() (*api.Client, error) {
	creds := credstore.NewFileStore(cfg.CredentialsFile)
	sess := session.New(creds, logger)
	cc := cache.New(cfg.SweepInterval, logger)
	httpClient, err := transport.New(cfg.APIBaseURL, sess, cfg.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}
	return api.New(cfg, httpClient, cc, sess, logger), nil
}
