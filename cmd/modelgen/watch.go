package main

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/compiler/gen"
)

// WatchCmd returns the watch command.
func WatchCmd(flags *globalFlags) *cobra.Command {
	var (
		o        = &overrides{}
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the data model or the templates change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig(cmd, o.options(cmd)...)
			if err != nil {
				return err
			}
			w := gen.NewWatcher(cfg)
			w.Debounce = debounce
			w.OnGenerate = func(err error) {
				out := cmd.OutOrStdout()
				if err != nil {
					color.New(color.FgRed).Fprintln(out, "Generation failed:", err)
					return
				}
				color.New(color.FgGreen).Fprintf(out, "Generated files in %s\n", cfg.OutputDirectory)
			}
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "Watching for changes, press Ctrl+C to stop")
			return w.Run(cmd.Context())
		},
	}
	o.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", gen.DefaultDebounce, "quiet period before regenerating")
	return cmd
}
