package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/compiler/gen"
)

// overrides holds the command line values replacing configuration keys.
type overrides struct {
	dataModel string
	templates string
	output    string
	extension string
	workers   int
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.dataModel, "data-model", "m", "", "override dataModelPath")
	cmd.Flags().StringVarP(&o.templates, "templates", "t", "", "override templatePath")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "override outputDirectory")
	cmd.Flags().StringVar(&o.extension, "extension", "", "override fileExtension")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "number of parallel renders")
}

// options returns the options of the flags set on the command line.
func (o *overrides) options(cmd *cobra.Command) []gen.Option {
	var opts []gen.Option
	if cmd.Flags().Changed("data-model") {
		opts = append(opts, gen.WithDataModelPath(o.dataModel))
	}
	if cmd.Flags().Changed("templates") {
		opts = append(opts, gen.WithTemplatePath(o.templates))
	}
	if cmd.Flags().Changed("output") {
		opts = append(opts, gen.WithOutputDirectory(o.output))
	}
	if cmd.Flags().Changed("extension") {
		opts = append(opts, gen.WithFileExtension(o.extension))
	}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, gen.WithWorkers(o.workers))
	}
	return opts
}

// GenerateCmd returns the generate command.
func GenerateCmd(flags *globalFlags) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "generate [config]",
		Short: "Render the configured templates for every entity",
		Long: `Render the configured templates for every entity of the data model.

Existing files are kept unless their template sets overwriteIfExists.
A configuration path given as argument takes precedence over --config.

Examples:
  modelgen generate
  modelgen generate modelgen.json
  modelgen generate -c modelgen.yaml -o Sources/Generated
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.config = args[0]
			}
			var entities int
			count := func(next gen.Generator) gen.Generator {
				return gen.GenerateFunc(func(g *gen.Graph) error {
					entities = g.Len()
					return next.Generate(g)
				})
			}
			cfg, err := flags.loadConfig(cmd, append(o.options(cmd), gen.WithHooks(count))...)
			if err != nil {
				return err
			}
			if err := gen.Generate(cmd.Context(), cfg); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Generated files for %d entities in %s\n", entities, cfg.OutputDirectory)
			return nil
		},
	}
	o.register(cmd)
	return cmd
}
