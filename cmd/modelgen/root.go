package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/compiler/gen"
)

const (
	// configEnv names the environment variable holding the default
	// configuration path. It may be set in a .env file.
	configEnv     = "MODELGEN_CONFIG"
	defaultConfig = "modelgen.json"
)

// globalFlags are shared by all commands.
type globalFlags struct {
	config  string
	verbose bool
}

// RootCmd returns the modelgen command tree.
func RootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:     "modelgen",
		Short:   "Generate source files from Core Data models",
		Version: versionString(),
		Long: `modelgen reads the contents document of a Core Data model and renders
user templates once per entity.

Examples:

  modelgen generate
  modelgen generate --config Config/modelgen.yaml --output Sources/Model
  modelgen inspect Model.xcdatamodeld --format json
  modelgen watch
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", configPath(), "configuration file (JSON or YAML), defaults to $"+configEnv)
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	cmd.AddCommand(
		GenerateCmd(flags),
		InspectCmd(flags),
		WatchCmd(flags),
		VersionCmd(),
	)
	return cmd
}

func configPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	return defaultConfig
}

// logger returns the diagnostics logger of a command, writing to its error
// stream.
func (f *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the configuration file and applies the command options
// on top of it.
func (f *globalFlags) loadConfig(cmd *cobra.Command, opts ...gen.Option) (*gen.Config, error) {
	opts = append(opts, gen.WithLogger(f.logger(cmd)))
	return gen.LoadConfig(f.config, opts...)
}
