// Package cli implements the uplink command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/uplink/internal/config"
	"github.com/tOgg1/uplink/internal/locale"
	"github.com/tOgg1/uplink/internal/logging"
)

// Execute runs the root command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

// runtime is shared by all subcommands of one root command.
type runtime struct {
	cfg     *config.Config
	catalog *locale.Catalog
	logFile io.Closer
}

func newRootCmd(version string) *cobra.Command {
	rt := &runtime{}
	cmd := &cobra.Command{
		Use:           "uplink",
		Short:         "Peer-to-peer chat interaction core",
		Long:          "uplink renders messages with link previews, starts conversations and manages friends and UI state.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logFile != nil {
				_ = rt.logFile.Close()
			}
		},
	}
	cmd.PersistentFlags().String("config", "", "Config file (default: ~/.config/uplink/config.yaml)")
	cmd.PersistentFlags().String("env-file", ".env", "Dotenv file read before loading config")
	cmd.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")
	cmd.PersistentFlags().String("data-dir", "", "Data directory override")
	cmd.PersistentFlags().Bool("json", false, "JSON output")

	cmd.AddCommand(
		newRenderCmd(rt),
		newPreviewCmd(rt),
		newFriendsCmd(rt),
		newChatCmd(rt),
		newStateCmd(rt),
		newIdentityCmd(rt),
	)

	return cmd
}

// load reads configuration and initializes logging.
func (rt *runtime) load(cmd *cobra.Command) error {
	catalog, err := locale.Load()
	if err != nil {
		return Exitf(ExitCodeFailure, "load locale catalogs: %v", err)
	}
	rt.catalog = catalog

	loader := config.NewLoader()
	if path, _ := cmd.Flags().GetString("config"); strings.TrimSpace(path) != "" {
		loader.SetConfigFile(path)
	}
	envFile, _ := cmd.Flags().GetString("env-file")
	loader.SetEnvFiles(envFile)
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		loader.Set("logging.level", level)
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		loader.Set("global.data_dir", dir)
	}

	cfg, err := loader.Load()
	if err != nil {
		return Exitf(ExitCodeFailure, "%v", err)
	}
	if err := cfg.Validate(catalog.Languages()...); err != nil {
		return Exitf(ExitCodeFailure, "config validation failed: %v", err)
	}
	rt.cfg = cfg

	if err := rt.initLogging(); err != nil {
		return err
	}
	logger := logging.Component("cli").With().Str("command", cmd.Name()).Logger()
	logger.Debug().
		Str("config_file", loader.ConfigFileUsed()).
		Str("data_dir", cfg.Global.DataDir).
		Msg("configuration loaded")
	cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	return nil
}

func (rt *runtime) initLogging() error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = rt.cfg.Logging.Level
	logCfg.Format = rt.cfg.Logging.Format
	logCfg.EnableCaller = rt.cfg.Logging.EnableCaller
	if rt.cfg.Logging.File != "" {
		f, err := os.OpenFile(rt.cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return Exitf(ExitCodeFailure, "open log file: %v", err)
		}
		logCfg.Output = f
		rt.logFile = f
	}
	logging.Init(logCfg)
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeLine(cmd *cobra.Command, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), args...)
}
