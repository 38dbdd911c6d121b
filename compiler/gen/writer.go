package gen

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// TemplateWriter renders the configured templates for every entity of a
// graph and writes the results. Renders run in parallel; files are written
// sequentially in entity and template order.
type TemplateWriter struct {
	cfg      *Config
	graph    *Graph
	output   OutputConfig
	renderer Renderer

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	FilesSkipped   int
	TotalBytes     int64
	TemplateTime   int64 // nanoseconds
	FormatTime     int64 // nanoseconds
	WriteTime      int64 // nanoseconds
}

// fileTask is one (entity, template) pair.
type fileTask struct {
	entity *Entity
	job    *TemplateJob
	path   string
	output string
}

// NewTemplateWriter creates a new template-based writer. Without a
// configured Renderer, the writer parses the template directory itself, once
// per writer.
func NewTemplateWriter(cfg *Config, g *Graph) *TemplateWriter {
	return &TemplateWriter{
		cfg:      cfg,
		graph:    g,
		output:   cfg.Output(),
		renderer: cfg.renderer(),
		metrics:  &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *TemplateWriter) WithWorkers(n int) *TemplateWriter {
	if n > 0 {
		w.output.Workers = n
	}
	return w
}

// Metrics returns the generation metrics.
func (w *TemplateWriter) Metrics() *WriterMetrics {
	return w.metrics
}

// GenerateAll generates the files of all entities.
func (w *TemplateWriter) GenerateAll(ctx context.Context) error {
	if err := w.generate(ctx, w.graph.entities); err != nil {
		return err
	}
	w.cfg.logger().Info("generation finished",
		"entities", w.graph.Len(),
		"written", w.metrics.FilesGenerated,
		"skipped", w.metrics.FilesSkipped,
		"bytes", w.metrics.TotalBytes,
		"output", w.output.Directory,
	)
	return nil
}

// GenerateEntity generates the files of a single entity.
func (w *TemplateWriter) GenerateEntity(ctx context.Context, e *Entity) error {
	return w.generate(ctx, []*Entity{e})
}

func (w *TemplateWriter) generate(ctx context.Context, entities []*Entity) error {
	var (
		log   = w.cfg.logger()
		now   = w.cfg.now()
		tasks = make([]*fileTask, 0, len(entities)*len(w.cfg.Templates))
		owner = make(map[string]string)
	)
	for _, e := range entities {
		log.Info("generating files for entity", "entity", e.Name(), "class", e.RepresentedClassName())
		for _, j := range w.cfg.Templates {
			path := w.output.Path(j, e)
			if prev, ok := owner[path]; ok {
				log.Warn("duplicate output file", "file", path, "entity", e.Name(), "template", j.Name, "first", prev)
			} else {
				owner[path] = e.Name()
			}
			tasks = append(tasks, &fileTask{entity: e, job: j, path: path})
		}
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.output.Workers)
	for _, task := range tasks {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			out, err := w.renderer.Render(task.job.Name, NewRenderContext(w.graph, task.entity, now).Map())
			if err != nil {
				return NewGenerationError(PhaseRender, task.entity.Name(), task.job.Name, task.path, err)
			}
			task.output = out
			w.mu.Lock()
			w.metrics.TemplateTime += int64(time.Since(start))
			w.mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	for _, task := range tasks {
		if err := w.writeFile(task); err != nil {
			return err
		}
	}
	return nil
}

// writeFile writes the rendered output of a task. Existing files are kept
// unless the template job allows overwriting them.
func (w *TemplateWriter) writeFile(f *fileTask) error {
	log := w.cfg.logger()
	if _, err := os.Stat(f.path); err == nil && !f.job.Overwrite {
		log.Debug("skipping existing file", "entity", f.entity.Name(), "template", f.job.Name, "file", f.path)
		w.metrics.FilesSkipped++
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Debug("stat output file", "file", f.path, "error", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return NewGenerationError(PhaseMkdir, f.entity.Name(), f.job.Name, filepath.Dir(f.path), err)
	}
	content := []byte(f.output)
	if filepath.Ext(f.path) == ".go" {
		start := time.Now()
		formatted, err := imports.Process(f.path, content, nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			_ = os.WriteFile(f.path+".error", content, 0o644)
			return NewGenerationError(PhaseFormat, f.entity.Name(), f.job.Name, f.path, err)
		}
		content = formatted
		w.metrics.FormatTime += int64(time.Since(start))
	}
	start := time.Now()
	if err := os.WriteFile(f.path, content, 0o644); err != nil {
		return NewGenerationError(PhaseWrite, f.entity.Name(), f.job.Name, f.path, err)
	}
	w.metrics.WriteTime += int64(time.Since(start))
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(content))
	log.Info("wrote file", "entity", f.entity.Name(), "file", f.path)
	return nil
}
