package gen

import "context"

type (
	// Generator is the interface that wraps the Generate method.
	Generator interface {
		// Generate generates the files of the given graph.
		Generate(*Graph) error
	}

	// The GenerateFunc type is an adapter to allow the use of ordinary
	// function as Generator. If f is a function with the appropriate signature,
	// GenerateFunc(f) is a Generator that calls f.
	GenerateFunc func(*Graph) error

	// Hook defines the "generate middleware". A function that gets a Generator
	// and returns a Generator. For example:
	//
	//	hook := func(next gen.Generator) gen.Generator {
	//		return gen.GenerateFunc(func(g *gen.Graph) error {
	//			fmt.Println("Graph:", g)
	//			return next.Generate(g)
	//		})
	//	}
	//
	Hook func(Generator) Generator
)

// Generate calls f(g).
func (f GenerateFunc) Generate(g *Graph) error {
	return f(g)
}

// Generate validates the configuration, reads the data model and generates
// the files of all entities. The data model is not read when the
// configuration is invalid.
func Generate(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g, err := cfg.read(cfg.DataModelPath)
	if err != nil {
		return err
	}
	cfg.logger().Debug("read data model", "path", g.Path(), "entities", g.Len())
	return GenerateGraph(ctx, cfg, g)
}

// GenerateGraph generates the files of an already loaded graph. The
// configured hooks wrap the generator, the first hook being the outermost.
func GenerateGraph(ctx context.Context, cfg *Config, g *Graph) error {
	gen := cfg.Generator
	if gen == nil {
		gen = GenerateFunc(func(g *Graph) error {
			return NewTemplateWriter(cfg, g).GenerateAll(ctx)
		})
	}
	for i := len(cfg.Hooks) - 1; i >= 0; i-- {
		gen = cfg.Hooks[i](gen)
	}
	return gen.Generate(g)
}
