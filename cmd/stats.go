package cmd

import (
	"errors"
	"fmt"

	gamestatetoml "github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/gamestate/toml"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *app) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the per-identity game record kept on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := identity
			if target == "" {
				if _, _, err := app.manager.Restore(cmd.Context()); err != nil {
					return fmt.Errorf("restore session: %w", err)
				}
				target = app.manager.Session().Identity
			}
			if target == "" {
				return errors.New("no active identity, pass --identity or connect first")
			}

			player, err := app.binder.Player(cmd.Context(), target)
			if err != nil {
				if errors.Is(err, gamestatetoml.ErrPlayerNotFound) {
					return fmt.Errorf("%w, it has never been bound on this device", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "identity: %s\n", player.Identity)
			fmt.Fprintf(out, "balance: %s\n", player.Balance)
			fmt.Fprintf(out, "successful steals: %d\n", player.SuccessfulSteals)
			fmt.Fprintf(out, "times raided: %d\n", player.TimesRaided)
			if player.UpdatedAt != "" {
				fmt.Fprintf(out, "updated: %s\n", player.UpdatedAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Inspect a specific identity instead of the active session")

	return cmd
}
