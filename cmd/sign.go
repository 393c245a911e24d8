package cmd

import (
	"errors"
	"fmt"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newSignCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a payload with the active wallet backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := app.manager.Restore(cmd.Context()); err != nil {
				return fmt.Errorf("restore session: %w", err)
			}

			signature, err := app.manager.Sign(cmd.Context(), []byte(args[0]))
			if err != nil {
				if errors.Is(err, domain.ErrNotConnected) {
					return fmt.Errorf("%w: run `sns connect <backend>` first", domain.ErrNotConnected)
				}
				if errors.Is(err, domain.ErrUserRejected) {
					return fmt.Errorf("%w: the wallet declined the signature request", domain.ErrUserRejected)
				}
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), signature)
			return err
		},
	}
}
