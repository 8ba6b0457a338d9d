package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/posguard/licadmin/internal/api"
	"github.com/posguard/licadmin/internal/session"
)

var activationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream device activation events live",
	Long: `Follows the live activation feed until interrupted. The session
monitor runs alongside: a warning is printed ahead of token expiry and the
stream stops once the session ends.`,
	RunE: runActivationWatch,
}

func runActivationWatch(cmd *cobra.Command, args []string) error {
	if !cfg.ActivationStreamEnabled {
		return fmt.Errorf("the activation stream is disabled")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	monitor := session.NewMonitor(client.Session(), session.MonitorConfig{
		Interval:   cfg.MonitorInterval,
		WarnBefore: cfg.WarnBefore,
		OnWarn: func(remaining time.Duration) {
			printer.Warnf("session expires in %s, log in again soon", remaining.Round(time.Second))
		},
		OnExpire: func() {
			printer.Errorf("session expired, please log in again")
			cancel()
		},
	}, logger)
	monitor.Start(ctx)
	defer monitor.Stop()

	printer.Infof("Watching activations (ctrl-c to stop)...")
	err = client.WatchActivations(ctx, func(ev api.ActivationEvent) {
		switch ev.Type {
		case "revoked":
			printer.Infof("%s  revoked    %s (%s) from license %s",
				ev.At.Format(time.TimeOnly), ev.DeviceName, ev.DeviceID, ev.LicenseKey)
		default:
			printer.Infof("%s  activated  %s (%s) on license %s",
				ev.At.Format(time.TimeOnly), ev.DeviceName, ev.DeviceID, ev.LicenseKey)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
