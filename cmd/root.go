package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	appName           = "omnibridge-engine"
	defaultConfigPath = "./config.yaml"
)

// NewRootCmd builds the command tree around a fresh AppState.
func NewRootCmd() *cobra.Command {
	a := NewAppState()

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "A CLI tool for resolving, limiting and relaying omnibridge token transfers",
	}

	addAppPersistantFlags(rootCmd, a)

	rootCmd.AddCommand(
		resolveCmd(a),
		limitsCmd(a),
		estimateCmd(a),
		relayCmd(a),
		serveCmd(a),
		configShowCmd(a),
		versionCmd,
	)

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
