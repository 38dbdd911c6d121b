package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/compiler/load"
)

func testConfig(t *testing.T, jobs ...*TemplateJob) *Config {
	t.Helper()
	return MustNewConfig(
		WithDataModelPath("../load/testdata/person.xml"),
		WithTemplatePath("testdata/templates"),
		WithOutputDirectory(t.TempDir()),
		WithTemplates(jobs...),
		WithClock(func() time.Time { return testNow }),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	)
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl", Suffix: "+CoreDataProperties"})
	require.NoError(t, Generate(context.Background(), cfg))

	buf, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, "Person+CoreDataProperties.swift"))
	require.NoError(t, err)
	assert.Contains(t, string(buf), "@NSManaged public var age: Int32\n")
	assert.Contains(t, string(buf), "@NSManaged public var pets: Set<Pet>\n")
	assert.Contains(t, string(buf), "Generated on 3/7/24. Copyright 2024.")
}

func TestGenerateLogs(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl"})
	cfg.DataModelPath = "../load/testdata/zoo.xml"
	cfg.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	require.NoError(t, Generate(context.Background(), cfg))

	var classes []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, `msg="generating files for entity"`) {
			i := strings.Index(line, "class=")
			require.Positive(t, i)
			classes = append(classes, line[i+len("class="):])
		}
	}
	assert.Equal(t, []string{"ZooMO", "AnimalMO", "LionMO", "KeeperMO"}, classes, "one line per entity in document order")
	assert.Contains(t, logs.String(), `msg="generation finished" entities=4 written=4 skipped=0`)
}

func TestGenerateMissingDataModelPath(t *testing.T) {
	var reads atomic.Int32
	cfg := &Config{
		OutputDirectory: t.TempDir(),
		TemplatePath:    "testdata/templates",
		Templates:       []*TemplateJob{{Name: "entity.tmpl"}},
		readGraph: func(string) (*Graph, error) {
			reads.Add(1)
			return NewGraph(), nil
		},
	}
	err := Generate(context.Background(), cfg)
	require.Error(t, err)

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "dataModelPath", cerr.Option)
	assert.Zero(t, reads.Load(), "the data model is never read")

	entries, err := os.ReadDir(cfg.OutputDirectory)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateSchemaError(t *testing.T) {
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl"})
	cfg.DataModelPath = filepath.Join(t.TempDir(), "missing.xcdatamodel")
	err := Generate(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestGenerateOutputNaming(t *testing.T) {
	cfg := testConfig(t,
		&TemplateJob{Name: "entity.tmpl", Prefix: "_", Suffix: "+Machine", Subdirectory: "Machine"},
		&TemplateJob{Name: "entity.tmpl", Subdirectory: "Human"},
	)
	cfg.FileExtension = "txt"
	require.NoError(t, Generate(context.Background(), cfg))

	for _, path := range []string{"Machine/_Person+Machine.txt", "Human/Person.txt"} {
		_, err := os.Stat(filepath.Join(cfg.OutputDirectory, filepath.FromSlash(path)))
		assert.NoError(t, err, path)
	}
}

func TestGenerateOverwrite(t *testing.T) {
	tests := []struct {
		name      string
		overwrite bool
		expected  string
	}{
		{"existing file is kept", false, "hand written"},
		{"existing file is replaced", true, "// Person+CoreDataProperties.swift"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl", Overwrite: tt.overwrite})
			path := filepath.Join(cfg.OutputDirectory, "Person.swift")
			require.NoError(t, os.WriteFile(path, []byte("hand written"), 0o644))

			w := NewTemplateWriter(cfg, mustReadGraph(t, cfg.DataModelPath))
			require.NoError(t, w.GenerateAll(context.Background()))

			buf, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(buf), tt.expected))
			if tt.overwrite {
				assert.Equal(t, 1, w.Metrics().FilesGenerated)
				assert.Zero(t, w.Metrics().FilesSkipped)
			} else {
				assert.Zero(t, w.Metrics().FilesGenerated)
				assert.Equal(t, 1, w.Metrics().FilesSkipped)
			}
		})
	}
}

func TestGenerateGoFormatting(t *testing.T) {
	t.Run("formatted", func(t *testing.T) {
		cfg := testConfig(t, &TemplateJob{Name: "go.tmpl", FileExtension: "go"})
		require.NoError(t, Generate(context.Background(), cfg))

		buf, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, "Person.go"))
		require.NoError(t, err)
		assert.Contains(t, string(buf), "package person\n")
		assert.Contains(t, string(buf), "func (Person) String() string {")
	})

	t.Run("format failure", func(t *testing.T) {
		cfg := testConfig(t, &TemplateJob{Name: "broken.tmpl", FileExtension: "go"})
		err := Generate(context.Background(), cfg)
		require.Error(t, err)

		var gerr *GenerationError
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, PhaseFormat, gerr.Phase)
		assert.Equal(t, "Person", gerr.Entity)

		path := filepath.Join(cfg.OutputDirectory, "Person.go")
		_, err = os.Stat(path)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		buf, err := os.ReadFile(path + ".error")
		require.NoError(t, err)
		assert.Contains(t, string(buf), "func {")
	})
}

func TestGenerateRenderError(t *testing.T) {
	cfg := testConfig(t,
		&TemplateJob{Name: "entity.tmpl"},
		&TemplateJob{Name: "fail.tmpl", Suffix: "+Fail"},
	)
	err := Generate(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))

	var gerr *GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, PhaseRender, gerr.Phase)
	assert.Equal(t, "fail.tmpl", gerr.Template)

	entries, err := os.ReadDir(cfg.OutputDirectory)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when a render fails")
}

func TestGenerateWriteError(t *testing.T) {
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl", Subdirectory: "sub"})
	// A regular file where the subdirectory should be.
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDirectory, "sub"), nil, 0o644))
	err := Generate(context.Background(), cfg)
	require.Error(t, err)

	var gerr *GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, PhaseMkdir, gerr.Phase)
}

func TestGenerateCustomRenderer(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig(t, &TemplateJob{Name: "a"}, &TemplateJob{Name: "b", Suffix: "B"})
	cfg.DataModelPath = "../load/testdata/zoo.xml"
	cfg.TemplatePath = ""
	cfg.Workers = 3
	cfg.Renderer = RenderFunc(func(name string, ctx map[string]any) (string, error) {
		calls.Add(1)
		e := ctx[ContextEntity].(*Entity)
		return fmt.Sprintf("%s %s %d", name, e.RepresentedClassName(), ctx[ContextYear]), nil
	})
	require.NoError(t, Generate(context.Background(), cfg))
	assert.Equal(t, int32(8), calls.Load())

	buf, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, "LionB.swift"))
	require.NoError(t, err)
	assert.Equal(t, "b LionMO 2024", string(buf))
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl"})
	err := Generate(ctx, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerateWithHooks(t *testing.T) {
	var order []string
	hook := func(name string) Hook {
		return func(next Generator) Generator {
			return GenerateFunc(func(g *Graph) error {
				order = append(order, name)
				return next.Generate(g)
			})
		}
	}
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl"})
	require.NoError(t, cfg.Apply(WithHooks(hook("first"), hook("second"))))
	require.NoError(t, Generate(context.Background(), cfg))
	assert.Equal(t, []string{"first", "second"}, order)

	_, err := os.Stat(filepath.Join(cfg.OutputDirectory, "Person.swift"))
	require.NoError(t, err)
}

func TestGenerateWithGenerator(t *testing.T) {
	var entities int
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl"})
	require.NoError(t, cfg.Apply(WithGenerator(GenerateFunc(func(g *Graph) error {
		entities = g.Len()
		return nil
	}))))
	require.NoError(t, Generate(context.Background(), cfg))
	assert.Equal(t, 1, entities)

	entries, err := os.ReadDir(cfg.OutputDirectory)
	require.NoError(t, err)
	assert.Empty(t, entries, "the default writer is replaced")
}

func TestTemplateWriterGenerateEntity(t *testing.T) {
	cfg := testConfig(t, &TemplateJob{Name: "entity.tmpl"})
	g := NewGraph(
		&load.Entity{Name: "A", RepresentedClassName: "A"},
		&load.Entity{Name: "B", RepresentedClassName: "B"},
	)
	b, _ := g.Entity("B")
	w := NewTemplateWriter(cfg, g).WithWorkers(1)
	require.NoError(t, w.GenerateEntity(context.Background(), b))

	entries, err := os.ReadDir(cfg.OutputDirectory)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "B.swift", entries[0].Name())
	assert.Equal(t, 1, w.Metrics().FilesGenerated)
	assert.Positive(t, w.Metrics().TotalBytes)
}

func mustReadGraph(t *testing.T, path string) *Graph {
	t.Helper()
	g, err := ReadGraph(path)
	require.NoError(t, err)
	return g
}

func TestGenerateReloadsTemplates(t *testing.T) {
	templates := t.TempDir()
	tmpl := filepath.Join(templates, "e.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("v1 {{ .entity.Name }}"), 0o644))
	cfg := testConfig(t, &TemplateJob{Name: "e.tmpl", Overwrite: true})
	cfg.TemplatePath = templates
	out := filepath.Join(cfg.OutputDirectory, "Person.swift")

	require.NoError(t, Generate(context.Background(), cfg))
	buf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "v1 Person", string(buf))
	assert.Nil(t, cfg.Renderer, "generation leaves the configuration untouched")

	require.NoError(t, os.WriteFile(tmpl, []byte("v2 {{ .entity.Name }}"), 0o644))
	require.NoError(t, Generate(context.Background(), cfg))
	buf, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "v2 Person", string(buf))

	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "e.tmpl"), []byte("v3 {{ .entity.Name }}"), 0o644))
	cfg.TemplatePath = other
	require.NoError(t, Generate(context.Background(), cfg))
	buf, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "v3 Person", string(buf), "a changed template path is used")
}

func TestGenerateDuplicateOutputPaths(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t, &TemplateJob{Name: "class"})
	cfg.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	cfg.Renderer = RenderFunc(func(_ string, ctx map[string]any) (string, error) {
		return ctx["entity"].(*Entity).RepresentedClassName(), nil
	})
	g := NewGraph(
		&load.Entity{Name: "A", RepresentedClassName: "FirstMO"},
		&load.Entity{Name: "A", RepresentedClassName: "SecondMO"},
	)
	require.NoError(t, GenerateGraph(context.Background(), cfg, g))

	buf, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, "A.swift"))
	require.NoError(t, err)
	assert.Equal(t, "FirstMO", string(buf), "the first entity keeps the file")
	assert.Contains(t, logs.String(), `level=WARN msg="duplicate output file"`)
	assert.Contains(t, logs.String(), `first=A`)
	assert.Contains(t, logs.String(), `skipped=1`)
}
