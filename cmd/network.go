package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newNetworkCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Probe and watch game endpoint reachability",
	}

	cmd.AddCommand(
		newNetworkCheckCmd(app),
		newNetworkWatchCmd(app),
	)

	return cmd
}

func newNetworkCheckCmd(app *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one reachability probe cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			probe := func(ctx context.Context) error {
				app.reachability.Check(ctx)
				return nil
			}

			if plain {
				if err := probe(cmd.Context()); err != nil {
					return err
				}
			} else if err := runProbeSpinner(cmd.Context(), cmd.ErrOrStderr(), probe); err != nil {
				return fmt.Errorf("probe endpoints: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), formatReachability(app.reachability.Status()))
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable the progress spinner")

	return cmd
}

func newNetworkWatchCmd(app *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Probe on an interval and print each status until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				status := app.reachability.Check(cmd.Context())
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), formatReachability(status)); err != nil {
					return err
				}

				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Delay between probe cycles")

	return cmd
}

func formatReachability(status domain.ReachabilityStatus) string {
	if !status.Connected {
		if status.Error != "" {
			return fmt.Sprintf("mock mode (%s)", status.Error)
		}
		return "mock mode"
	}

	return fmt.Sprintf("connected: %s [%s, %dms]",
		status.Endpoint.Name, status.NetworkKind, status.Latency.Milliseconds())
}
