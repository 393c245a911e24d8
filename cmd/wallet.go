package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWalletCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the stored local wallet record",
	}

	cmd.AddCommand(newWalletClearCmd(app))

	return cmd
}

func newWalletClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the local simulated wallet record",
		Long:  "Clear removes the persisted local wallet record. The next local-simulated connect mints a fresh identity with the starting balance.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.walletRepo.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear wallet record: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "wallet record cleared")
			return nil
		},
	}
}
