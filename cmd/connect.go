package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newConnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:       "connect <backend>",
		Short:     "Connect a wallet backend and start a session",
		Long:      "Connect establishes a wallet session against one of the supported backends: local-simulated, native-extension, or bridged-provider.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: connectableKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.BackendKind(args[0])

			// Pick up any persisted session first so a switch to another
			// backend migrates the outgoing identity's state instead of
			// binding over it.
			if _, _, err := app.manager.Restore(cmd.Context()); err != nil {
				return fmt.Errorf("restore session: %w", err)
			}

			session, err := app.manager.Connect(cmd.Context(), kind)
			if err != nil {
				return describeSessionError(err, kind)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "connected via %s\n", session.Kind)
			fmt.Fprintf(cmd.OutOrStdout(), "identity: %s\n", session.Identity)
			if len(session.AccountHandles) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "accounts: %s\n", strings.Join(session.AccountHandles, ", "))
			}
			return nil
		},
	}
}

func connectableKinds() []string {
	return []string{
		string(domain.BackendLocalSimulated),
		string(domain.BackendNativeExtension),
		string(domain.BackendBridgedProvider),
	}
}

// describeSessionError attaches a next step to the well-known session errors
// so the bare sentinel never reaches the terminal on its own.
func describeSessionError(err error, kind domain.BackendKind) error {
	switch {
	case errors.Is(err, domain.ErrInvalidBackend):
		return fmt.Errorf("%w: %q, want one of %s", domain.ErrInvalidBackend, kind, strings.Join(connectableKinds(), ", "))
	case errors.Is(err, domain.ErrBackendUnavailable):
		switch kind {
		case domain.BackendNativeExtension:
			return fmt.Errorf("%w: the wallet extension socket is not present, install or start the extension first", err)
		case domain.BackendBridgedProvider:
			return fmt.Errorf("%w: no bridged provider answered, check that the bridge is running and bridge.url points at it", err)
		default:
			return fmt.Errorf("%w: backend %s is not reachable", err, kind)
		}
	case errors.Is(err, domain.ErrUserRejected):
		return fmt.Errorf("%w: the wallet declined the request, approve it in the wallet and retry", err)
	case errors.Is(err, domain.ErrOperationInProgress):
		return fmt.Errorf("%w: another connect or disconnect is still running, wait for it to finish", err)
	}
	return err
}
