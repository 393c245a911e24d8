package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sns",
		Short:         "Stake & Steal client (sns): manage wallet sessions and network reachability",
		Long:          "sns is the terminal client for Stake & Steal. It connects wallet backends (local simulated, native extension, bridged provider), signs payloads, tracks an advisory balance, and probes game endpoints for reachability.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConnectCmd(app),
		newDisconnectCmd(app),
		newSignCmd(app),
		newStatusCmd(app),
		newNetworkCmd(app),
		newStatsCmd(app),
		newBalanceCmd(app),
		newWalletCmd(app),
	)

	return rootCmd
}
