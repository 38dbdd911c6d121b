package gen

import (
	"errors"
	"log/slog"
	"time"
)

// Option configures code generation.
type Option func(*Config) error

// WithDataModelPath sets the path of the data model.
func WithDataModelPath(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError(keyDataModelPath, nil, "data model path cannot be empty")
		}
		c.DataModelPath = path
		return nil
	}
}

// WithTemplatePath sets the directory the templates are read from.
func WithTemplatePath(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError(keyTemplatePath, nil, "template path cannot be empty")
		}
		c.TemplatePath = dir
		return nil
	}
}

// WithOutputDirectory sets the root directory of the generated files.
func WithOutputDirectory(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError(keyOutputDirectory, nil, "output directory cannot be empty")
		}
		c.OutputDirectory = dir
		return nil
	}
}

// WithTemplates adds template jobs.
func WithTemplates(jobs ...*TemplateJob) Option {
	return func(c *Config) error {
		for _, j := range jobs {
			if j == nil || j.Name == "" {
				return NewConfigError(keyTemplateName, nil, "template name cannot be empty")
			}
		}
		c.Templates = append(c.Templates, jobs...)
		return nil
	}
}

// WithWorkers sets the number of parallel renders.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError(keyWorkers, n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithFileExtension sets the default extension of generated files,
// e.g. "swift" or "go".
func WithFileExtension(ext string) Option {
	return func(c *Config) error {
		if ext == "" {
			return NewConfigError(keyFileExtension, nil, "file extension cannot be empty")
		}
		c.FileExtension = ext
		return nil
	}
}

// WithRenderer sets a custom template renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Renderer", nil, "renderer cannot be nil")
		}
		c.Renderer = r
		return nil
	}
}

// WithLogger sets the logger receiving generation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithHooks adds generation hooks.
// Hooks are called before/after code generation.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// WithGenerator sets a custom code generator.
// If not set, defaults to the template writer.
func WithGenerator(g Generator) Option {
	return func(c *Config) error {
		if g == nil {
			return NewConfigError("Generator", nil, "generator cannot be nil")
		}
		c.Generator = g
		return nil
	}
}

// WithClock sets the time source of the render context.
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		if now == nil {
			return NewConfigError("Clock", nil, "clock cannot be nil")
		}
		c.Clock = now
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
