package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/strangelove-ventures/omnibridge-engine/ethereum"
	"github.com/strangelove-ventures/omnibridge-engine/relayer"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

// appState is the modifiable state of the application.
type AppState struct {
	Config *types.Config

	ConfigPath string

	Debug bool

	LogLevel string

	Logger log.Logger

	Directory *types.Directory
	Overrides *types.OverrideRegistry

	// nil unless metrics are served
	Metrics *relayer.PromMetrics
}

func NewAppState() *AppState {
	return &AppState{}
}

// InitAppState checks if a logger and config are present. If not, it adds them to the AppState
func (a *AppState) InitAppState() {
	if a.Logger == nil {
		a.InitLogger()
	}
	if a.Config == nil {
		a.loadEnvFile()
		a.loadConfigFile()
	}
}

func (a *AppState) InitLogger() {
	// info level is default
	level := zerolog.InfoLevel
	switch a.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// a.Debug overrides a.loglevel
	if a.Debug {
		a.Logger = log.NewLogger(os.Stdout, log.LevelOption(zerolog.DebugLevel))
	} else {
		a.Logger = log.NewLogger(os.Stdout, log.LevelOption(level))
	}
}

// loadEnvFile exports a .env file next to the working directory, if present,
// so RPC urls and signer keys can be referenced from the config.
func (a *AppState) loadEnvFile() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.Logger.Error("Unable to load env file", "err", err)
		os.Exit(1)
	}
}

// loadConfigFile loads a configuration into the AppState. It uses the AppState ConfigPath
// to determine file path to config.
func (a *AppState) loadConfigFile() {
	if a.Logger == nil {
		a.InitLogger()
	}
	config, err := ParseConfig(a.ConfigPath)
	if err != nil {
		a.Logger.Error("Unable to parse config file", "location", a.ConfigPath, "err", err)
		os.Exit(1)
	}
	a.Logger.Info("Successfully parsed config file", "location", a.ConfigPath)
	a.Config = config

	err = a.validateConfig()
	if err != nil {
		a.Logger.Error("Invalid config", "err", err)
		os.Exit(1)
	}

	if err := a.LoadDirectory(); err != nil {
		a.Logger.Error("Invalid bridge directions", "err", err)
		os.Exit(1)
	}
}

// LoadDirectory builds the bridge directory and override registry from the
// loaded config.
func (a *AppState) LoadDirectory() error {
	directory, err := types.NewDirectory(a.Config.Directions, a.Config.Networks())
	if err != nil {
		return err
	}
	a.Directory = directory

	if a.Config.OverridesFile == "" {
		a.Overrides, err = types.NewOverrideRegistry(nil)
		return err
	}

	// relative override files live next to the config file
	path := a.Config.OverridesFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(a.ConfigPath), path)
	}
	a.Overrides, err = types.ParseOverrides(path)
	if err != nil {
		return err
	}
	for _, id := range directory.Directions() {
		a.Logger.Debug("Loaded token overrides", "direction", id, "count", a.Overrides.Len(id))
	}
	return nil
}

// validateConfig checks the AppState Config for any invalid settings.
func (a *AppState) validateConfig() error {
	if len(a.Config.Chains) == 0 {
		return fmt.Errorf("at least one chain must be configured")
	}

	seen := make(map[uint64]string, len(a.Config.Chains))
	for name, cfg := range a.Config.Chains {
		cc, ok := cfg.(*ethereum.ChainConfig)
		if !ok {
			return fmt.Errorf("chain %s: unsupported chain config %T", name, cfg)
		}
		if err := a.validateChain(name, cc.Meta.ChainID, cc.RPC, cc.RequestsPerSecond); err != nil {
			return err
		}
		if other, ok := seen[cc.Meta.ChainID]; ok {
			return fmt.Errorf("chains %s and %s share chain id %d", other, name, cc.Meta.ChainID)
		}
		seen[cc.Meta.ChainID] = name
	}

	// ensure at least 1 direction
	if len(a.Config.Directions) == 0 {
		return fmt.Errorf("at least one bridge direction must be configured")
	}

	if a.Config.DefaultDirection != "" {
		if _, ok := a.Config.Directions[a.Config.DefaultDirection]; !ok {
			return fmt.Errorf("default-direction %s is not configured", a.Config.DefaultDirection)
		}
	}

	if a.Config.ReadTimeout < 0 || a.Config.RelayTimeout < 0 {
		return fmt.Errorf("read-timeout and relay-timeout must not be negative")
	}

	return nil
}

// validateChain ensures the chain is configured correctly
func (a *AppState) validateChain(
	name string,
	chainID uint64,
	rpcURL string,
	requestsPerSecond float64,
) error {
	if name == "" {
		return fmt.Errorf("chain name must be set in the config")
	}

	if chainID == 0 {
		return fmt.Errorf("chain-id must be set in the config (chain: %s)", name)
	}

	if rpcURL == "" {
		return fmt.Errorf("rpc must be set in the config (chain: %s) (rpc: %s)", name, rpcURL)
	}

	if requestsPerSecond < 0 {
		return fmt.Errorf("requests-per-second must not be negative (chain: %s) (requests-per-second: %f)", name, requestsPerSecond)
	}

	return nil
}
