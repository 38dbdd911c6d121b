package gen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileExtension is the extension of generated files when neither the
// configuration nor the template job sets one.
const DefaultFileExtension = "swift"

// Configuration keys.
const (
	keyTemplates       = "templates"
	keyDataModelPath   = "dataModelPath"
	keyOutputDirectory = "outputDirectory"
	keyTemplatePath    = "templatePath"
	keyFileExtension   = "fileExtension"
	keyWorkers         = "workers"

	keyTemplateName     = "templateName"
	keyOutputPrefix     = "templateOutputFilePrefix"
	keyOutputSuffix     = "templateOutputFileSuffix"
	keyOutputSubdir     = "outputSubdirectory"
	keyOverwriteIfExist = "overwriteIfExists"
)

type (
	// Config holds the global codegen configuration shared by all
	// generated files.
	Config struct {
		// DataModelPath is the path of the data model. It may point to a
		// contents document, an .xcdatamodel directory or an .xcdatamodeld
		// bundle.
		DataModelPath string
		// TemplatePath is the directory holding the templates.
		TemplatePath string
		// OutputDirectory is the root directory of the generated files.
		OutputDirectory string
		// Templates lists the templates rendered for every entity.
		Templates []*TemplateJob
		// FileExtension is the default extension of generated files.
		FileExtension string
		// Workers bounds the number of parallel renders.
		// Defaults to GOMAXPROCS.
		Workers int
		// Renderer renders the templates. Defaults to a TemplateRenderer
		// reading from TemplatePath.
		Renderer Renderer
		// Logger receives the generation diagnostics.
		Logger *slog.Logger
		// Hooks wrap the generator, outermost first.
		Hooks []Hook
		// Generator replaces the default template writer.
		Generator Generator
		// Clock returns the time used for the date and year of the render
		// context. Defaults to time.Now.
		Clock func() time.Time

		// readGraph reads the data model. Replaced in tests.
		readGraph func(string) (*Graph, error)
	}

	// TemplateJob describes one template rendered for every entity and where
	// its output goes.
	TemplateJob struct {
		// Name is the template name, relative to the template directory.
		Name string `yaml:"templateName" json:"templateName"`
		// Prefix and Suffix surround the entity name in the output file name.
		Prefix string `yaml:"templateOutputFilePrefix,omitempty" json:"templateOutputFilePrefix,omitempty"`
		Suffix string `yaml:"templateOutputFileSuffix,omitempty" json:"templateOutputFileSuffix,omitempty"`
		// Subdirectory is joined to the output directory.
		Subdirectory string `yaml:"outputSubdirectory,omitempty" json:"outputSubdirectory,omitempty"`
		// Overwrite allows replacing existing files.
		Overwrite bool `yaml:"overwriteIfExists,omitempty" json:"overwriteIfExists,omitempty"`
		// FileExtension overrides the configuration extension.
		FileExtension string `yaml:"fileExtension,omitempty" json:"fileExtension,omitempty"`
	}

	// OutputConfig holds the output settings of a configuration with
	// defaults applied. TemplateWriter reads its settings from it.
	OutputConfig struct {
		Directory     string
		FileExtension string
		Workers       int
	}
)

// LoadConfig reads the configuration file at path and applies the given
// options on top of it.
func LoadConfig(path string, opts ...Option) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modelgen: read config: %w", err)
	}
	return ParseConfig(buf, opts...)
}

// ParseConfig decodes a JSON or YAML configuration document and applies the
// given options on top of it. Required keys are checked in the order
// templates, dataModelPath, outputDirectory, templatePath, and then the
// templateName of each job. Optional keys holding a value of the wrong type
// fall back to their default.
func ParseConfig(data []byte, opts ...Option) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("modelgen: decode config: %w", err)
	}
	props, _ := doc.(map[string]any)
	rawJobs, ok := props[keyTemplates].([]any)
	if !ok {
		return nil, missingKey(keyTemplates, props[keyTemplates])
	}
	c := &Config{}
	for _, key := range []struct {
		name string
		dst  *string
	}{
		{keyDataModelPath, &c.DataModelPath},
		{keyOutputDirectory, &c.OutputDirectory},
		{keyTemplatePath, &c.TemplatePath},
	} {
		v, ok := props[key.name].(string)
		if !ok || v == "" {
			return nil, missingKey(key.name, props[key.name])
		}
		*key.dst = v
	}
	c.FileExtension = stringOr(props, keyFileExtension, "")
	if n, ok := props[keyWorkers].(int); ok && n > 0 {
		c.Workers = n
	}
	c.Templates = make([]*TemplateJob, 0, len(rawJobs))
	for i, raw := range rawJobs {
		option := fmt.Sprintf("%s[%d].%s", keyTemplates, i, keyTemplateName)
		job, ok := raw.(map[string]any)
		if !ok {
			return nil, missingKey(option, nil)
		}
		name, ok := job[keyTemplateName].(string)
		if !ok || name == "" {
			return nil, missingKey(option, job[keyTemplateName])
		}
		overwrite, _ := job[keyOverwriteIfExist].(bool)
		c.Templates = append(c.Templates, &TemplateJob{
			Name:          name,
			Prefix:        stringOr(job, keyOutputPrefix, ""),
			Suffix:        stringOr(job, keyOutputSuffix, ""),
			Subdirectory:  stringOr(job, keyOutputSubdir, ""),
			Overwrite:     overwrite,
			FileExtension: stringOr(job, keyFileExtension, ""),
		})
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the required configuration is present, in the same
// order as ParseConfig.
func (c *Config) Validate() error {
	switch {
	case c.DataModelPath == "":
		return missingKey(keyDataModelPath, nil)
	case c.OutputDirectory == "":
		return missingKey(keyOutputDirectory, nil)
	case c.TemplatePath == "" && c.Renderer == nil:
		return missingKey(keyTemplatePath, nil)
	}
	for i, j := range c.Templates {
		if j == nil || j.Name == "" {
			return missingKey(fmt.Sprintf("%s[%d].%s", keyTemplates, i, keyTemplateName), nil)
		}
	}
	return nil
}

// Output returns the output-related configuration with defaults applied.
func (c *Config) Output() OutputConfig {
	return OutputConfig{
		Directory:     c.OutputDirectory,
		FileExtension: c.fileExtension(),
		Workers:       c.workers(),
	}
}

// OutputPath returns the path of the file generated for entity e by job j:
// outputDirectory[/subdirectory]/[prefix]<entity name>[suffix].<extension>.
func (c *Config) OutputPath(j *TemplateJob, e *Entity) string {
	return c.Output().Path(j, e)
}

// Path returns the path of the file generated for entity e by job j. The
// extension of the job, if any, replaces the output extension.
func (o OutputConfig) Path(j *TemplateJob, e *Entity) string {
	ext := o.FileExtension
	if j.FileExtension != "" {
		ext = strings.TrimPrefix(j.FileExtension, ".")
	}
	name := j.Prefix + e.Name() + j.Suffix
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(o.Directory, j.Subdirectory, name)
}

func (c *Config) fileExtension() string {
	if c.FileExtension == "" {
		return DefaultFileExtension
	}
	return strings.TrimPrefix(c.FileExtension, ".")
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// renderer returns the configured renderer, or a new renderer of the
// template directory. The configuration is left untouched.
func (c *Config) renderer() Renderer {
	if c.Renderer != nil {
		return c.Renderer
	}
	return NewTemplateRenderer(c.TemplatePath)
}

func (c *Config) read(path string) (*Graph, error) {
	if c.readGraph != nil {
		return c.readGraph(path)
	}
	return ReadGraph(path)
}

func missingKey(key string, value any) *ConfigError {
	return NewConfigError(key, value, "missing or malformed configuration key")
}

func stringOr(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}
