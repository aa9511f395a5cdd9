package cmd

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// limitsOutput is the printable form of a limits snapshot.
type limitsOutput struct {
	Direction string               `json:"direction" yaml:"direction"`
	Pair      types.TokenPair      `json:"pair" yaml:"pair"`
	Limits    types.LimitsSnapshot `json:"limits" yaml:"-"`
	MinPerTx  string               `json:"-" yaml:"min-per-tx"`
	MaxPerTx  string               `json:"-" yaml:"max-per-tx"`
	Remaining string               `json:"-" yaml:"remaining-limit"`
	Daily     string               `json:"-" yaml:"daily-limit"`
}

func newLimitsOutput(direction string, pair types.TokenPair, l types.LimitsSnapshot) limitsOutput {
	return limitsOutput{
		Direction: direction,
		Pair:      pair,
		Limits:    l,
		MinPerTx:  l.MinPerTx.String(),
		MaxPerTx:  l.MaxPerTx.String(),
		Remaining: l.RemainingLimit.String(),
		Daily:     l.DailyLimit.String(),
	}
}

type estimateOutput struct {
	Direction string          `json:"direction" yaml:"direction"`
	Pair      types.TokenPair `json:"pair" yaml:"pair"`
	Amount    string          `json:"amount" yaml:"amount"`
	Received  string          `json:"received" yaml:"received"`
}

func resolveCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [chain-id] [token-address]",
		Short: "Resolve the counterpart of a token on the other side of a bridge direction",
		Args:  cobra.ExactArgs(2),
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s resolve 1 0x6810e776880c02933d47db1b9fc05908e5386b96 --direction eth-xdai
$ %s resolve 100 0x0000000000000000000000000000000000000000 --json`, appName, appName)),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, chainID, address, err := a.tokenArgs(cmd, args)
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

			jsn, _ := cmd.Flags().GetBool(flagJSON)
			return printOutput(cmd, jsn, pair)
		},
	}
	addDirectionFlag(cmd)
	addJsonFlag(cmd)
	return cmd
}

func limitsCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limits [chain-id] [token-address]",
		Short: "Print the current per-transaction and daily limits of a token",
		Args:  cobra.ExactArgs(2),
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s limits 1 0x6810e776880c02933d47db1b9fc05908e5386b96`, appName)),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, chainID, address, err := a.tokenArgs(cmd, args)
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
			snapshot := e.tokenLimits(cmd.Context(), direction, pair)

			jsn, _ := cmd.Flags().GetBool(flagJSON)
			return printOutput(cmd, jsn, newLimitsOutput(direction, pair, snapshot))
		},
	}
	addDirectionFlag(cmd)
	addJsonFlag(cmd)
	return cmd
}

func estimateCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [chain-id] [token-address] [amount]",
		Short: "Estimate the amount received on the other side after bridge fees",
		Long:  "Estimate the amount received on the other side after bridge fees. The amount is given in the token's smallest unit.",
		Args:  cobra.ExactArgs(3),
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s estimate 1 0x6810e776880c02933d47db1b9fc05908e5386b96 1000000000000000000`, appName)),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, chainID, address, err := a.tokenArgs(cmd, args[:2])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
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
			received, err := e.netAmount(cmd.Context(), direction, pair, amount)
			if err != nil {
				return err
			}

			jsn, _ := cmd.Flags().GetBool(flagJSON)
			return printOutput(cmd, jsn, estimateOutput{
				Direction: direction,
				Pair:      pair,
				Amount:    amount.String(),
				Received:  received.String(),
			})
		},
	}
	addDirectionFlag(cmd)
	addJsonFlag(cmd)
	return cmd
}

// tokenArgs reads the direction flag and the chain id and token address
// arguments.
func (a *AppState) tokenArgs(cmd *cobra.Command, args []string) (string, uint64, common.Address, error) {
	direction, err := cmd.Flags().GetString(flagDirection)
	if err != nil {
		return "", 0, common.Address{}, err
	}
	direction, err = a.resolveDirection(direction)
	if err != nil {
		return "", 0, common.Address{}, err
	}
	chainID, address, err := parseToken(args[0], args[1])
	if err != nil {
		return "", 0, common.Address{}, err
	}
	return direction, chainID, address, nil
}

// resolveDirection falls back to the configured default direction.
func (a *AppState) resolveDirection(direction string) (string, error) {
	if direction == "" {
		direction = a.Config.DefaultDirection
	}
	if direction == "" {
		return "", fmt.Errorf("no --%s given and no default-direction configured", flagDirection)
	}
	if _, err := a.Directory.Direction(direction); err != nil {
		return "", err
	}
	return direction, nil
}

func parseToken(chainArg, addressArg string) (uint64, common.Address, error) {
	chainID, err := strconv.ParseUint(chainArg, 10, 64)
	if err != nil {
		return 0, common.Address{}, fmt.Errorf("invalid chain id %q: %w", chainArg, err)
	}
	address, err := parseAddress(addressArg)
	if err != nil {
		return 0, common.Address{}, err
	}
	return chainID, address, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// parseAmount parses a positive integer amount in smallest units.
func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("invalid amount %q: must be a positive integer in the token's smallest unit", s)
	}
	return amount, nil
}
