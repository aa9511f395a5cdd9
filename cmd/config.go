package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/strangelove-ventures/omnibridge-engine/ethereum"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// Command for printing current configuration
func configShowCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "showConfig",
		Aliases: []string{"sc"},
		Short:   "Prints current configuration. By default it prints in yaml",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s showConfig --config %s
$ %s sc`, appName, defaultConfigPath, appName)),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsn, err := cmd.Flags().GetBool(flagJSON)
			if err != nil {
				return err
			}
			return printOutput(cmd, jsn, a.Config)
		},
	}
	addJsonFlag(cmd)
	return cmd
}

// printOutput writes v as yaml, or json when jsn is set.
func printOutput(cmd *cobra.Command, jsn bool, v any) error {
	var (
		out []byte
		err error
	)
	if jsn {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = yaml.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// ParseConfig parses the app config file
func ParseConfig(file string) (*types.Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %w", err)
	}

	var cfg types.ConfigWrapper
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	c := types.Config{
		Directions:       cfg.Directions,
		DefaultDirection: cfg.DefaultDirection,
		OverridesFile:    cfg.OverridesFile,
		ReadTimeout:      cfg.ReadTimeout,
		RelayTimeout:     cfg.RelayTimeout,
		Api:              cfg.Api,
		Chains:           make(map[string]types.ChainConfig),
	}

	// every supported chain is an EVM chain
	for name, chain := range cfg.Chains {
		yamlbz, err := yaml.Marshal(chain)
		if err != nil {
			return nil, err
		}

		var cc ethereum.ChainConfig
		if err := yaml.Unmarshal(yamlbz, &cc); err != nil {
			return nil, fmt.Errorf("error unmarshalling chain %s: %w", name, err)
		}
		c.Chains[name] = &cc
	}
	return &c, nil
}
