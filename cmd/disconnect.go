package cmd

import (
	"errors"
	"fmt"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "End the active wallet session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, err := app.manager.Restore(cmd.Context()); err != nil {
				return fmt.Errorf("restore session: %w", err)
			}

			if err := app.manager.Disconnect(cmd.Context()); err != nil {
				if errors.Is(err, domain.ErrNotConnected) {
					fmt.Fprintln(cmd.OutOrStdout(), "no active session")
					return nil
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "disconnected")
			return nil
		},
	}
}
