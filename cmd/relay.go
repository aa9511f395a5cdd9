package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

func relayCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay [chain-id] [token-address] [receiver] [amount]",
		Short: "Submit a bridge transfer to the other side of a bridge direction",
		Long: `Submit a bridge transfer to the other side of a bridge direction.

The token's limits are checked before submitting unless --force is given. The
amount is given in the token's smallest unit. Exactly one transaction is sent
and it is never retried.`,
		Args: cobra.ExactArgs(4),
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s relay 1 0x6810e776880c02933d47db1b9fc05908e5386b96 0x00000000000000000000000000000000000c0ffe 1000000000000000000
$ %s relay 100 0x0000000000000000000000000000000000000000 0x00000000000000000000000000000000000c0ffe 5 --direction eth-xdai`, appName, appName)),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, chainID, address, err := a.tokenArgs(cmd, args[:2])
			if err != nil {
				return err
			}
			receiver, err := parseAddress(args[2])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[3])
			if err != nil {
				return err
			}
			nativeCurrency, err := cmd.Flags().GetBool(flagNativeCurrency)
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool(flagForce)
			if err != nil {
				return err
			}

			e, err := a.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			pair, err := e.tokenPair(cmd.Context(), direction, chainID, address)
			if err != nil {
				return err
			}

			if !force {
				limits := e.tokenLimits(cmd.Context(), direction, pair)
				if !limits.Allows(amount) {
					return fmt.Errorf("%w: amount %s outside limits (min %s, max %s, remaining %s)",
						types.ErrRelayFailure, amount, limits.MinPerTx, limits.MaxPerTx, limits.RemainingLimit)
				}
			}

			tx, err := e.relay(cmd.Context(), direction, pair, receiver, amount, nativeCurrency)
			if err != nil {
				return err
			}

			jsn, _ := cmd.Flags().GetBool(flagJSON)
			return printOutput(cmd, jsn, tx)
		},
	}
	addDirectionFlag(cmd)
	addJsonFlag(cmd)
	cmd.Flags().Bool(flagNativeCurrency, false, "receive the native currency of the foreign chain instead of its wrapped token")
	cmd.Flags().Bool(flagForce, false, "submit without checking the token's limits")
	return cmd
}
