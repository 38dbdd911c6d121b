package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/compiler/gen"
)

// InspectCmd returns the inspect command.
func InspectCmd(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect [data model]",
		Short: "Print the resolved entities of a data model",
		Long: `Print the entities of a data model with the resolved type names of their
attributes and relationships. Without an argument, the dataModelPath of the
configuration is used.

Examples:
  modelgen inspect Model.xcdatamodeld
  modelgen inspect --format json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(gen.Formats, format) {
				return fmt.Errorf("unknown format %q, expected one of %s", format, strings.Join(gen.Formats, ", "))
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := flags.loadConfig(cmd)
				if err != nil {
					return errNoModel(err)
				}
				path = cfg.DataModelPath
			}
			g, err := gen.ReadGraph(path)
			if err != nil {
				return err
			}
			return gen.NewSnapshot(g).Encode(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", gen.FormatYAML, "output format: "+strings.Join(gen.Formats, ", "))
	return cmd
}

// errNoModel is returned by inspect when neither an argument nor a
// configuration names the data model.
func errNoModel(err error) error {
	return fmt.Errorf("no data model given and no usable configuration: %w", err)
}
