package cmd

import (
	"encoding/json"
	"fmt"

	statusadapter "github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/render/status"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	Session domain.Session            `json:"session"`
	Network domain.ReachabilityStatus `json:"network"`
}

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var skipProbe bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the wallet session and network reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, err := app.manager.Restore(cmd.Context()); err != nil {
				return fmt.Errorf("restore session: %w", err)
			}

			network := app.reachability.Status()
			if !skipProbe {
				network = app.reachability.Check(cmd.Context())
			}

			session := app.manager.Session()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statusOutput{Session: session, Network: network})
			}

			rendered, err := app.statusRenderer(session, network, statusadapter.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&skipProbe, "no-probe", false, "Skip the reachability probe and report the last known status")

	return cmd
}
