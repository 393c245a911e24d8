package cmd

import (
	"errors"
	"fmt"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newBalanceCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Manage the local simulated wallet balance",
		Long:  "Balance operates on the local simulated wallet's decimal balance. It is advisory for other backends and does not touch chain state.",
	}

	cmd.AddCommand(
		newBalanceShowCmd(app),
		newBalanceDepositCmd(app),
		newBalanceWithdrawCmd(app),
	)

	return cmd
}

func newBalanceShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balance, err := app.funds.Balance(cmd.Context())
			if err != nil {
				return describeFundsError(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), balance)
			return err
		},
	}
}

func newBalanceDepositCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Add a non-negative integer amount to the balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := app.funds.Deposit(cmd.Context(), args[0])
			if err != nil {
				return describeFundsError(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "balance: %s\n", balance)
			return err
		},
	}
}

func newBalanceWithdrawCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Subtract an amount from the balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := app.funds.Withdraw(cmd.Context(), args[0])
			if err != nil {
				return describeFundsError(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "balance: %s\n", balance)
			return err
		},
	}
}

func describeFundsError(err error) error {
	switch {
	case errors.Is(err, domain.ErrWalletRecordNotFound):
		return fmt.Errorf("%w: run `sns connect local-simulated` to create one", domain.ErrWalletRecordNotFound)
	case errors.Is(err, domain.ErrInvalidAmount):
		return fmt.Errorf("%w: amounts are non-negative base-10 integers", domain.ErrInvalidAmount)
	}
	return err
}
