package gen

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"
)

// DateLayout is the layout of the date in the render context.
const DateLayout = "1/2/06"

// Render context keys.
const (
	ContextEntity = "entity"
	ContextModel  = "model"
	ContextDate   = "date"
	ContextYear   = "year"
)

type (
	// Renderer renders the named template with the given context.
	Renderer interface {
		Render(name string, ctx map[string]any) (string, error)
	}

	// The RenderFunc type is an adapter to allow the use of ordinary
	// functions as Renderer.
	RenderFunc func(name string, ctx map[string]any) (string, error)

	// TemplateRenderer renders the text/template files of a directory.
	// Templates are named by their slash-separated path relative to the
	// directory, and may invoke each other by that name.
	TemplateRenderer struct {
		dir   string
		funcs template.FuncMap
		once  sync.Once
		root  *template.Template
		err   error
	}

	// RenderContext is the data passed to the templates of one entity.
	RenderContext struct {
		Entity *Entity
		Graph  *Graph
		// Date is the generation date in DateLayout.
		Date string
		Year int
	}
)

// Render calls f(name, ctx).
func (f RenderFunc) Render(name string, ctx map[string]any) (string, error) {
	return f(name, ctx)
}

// NewTemplateRenderer creates a renderer for the templates under dir. Extra
// function maps are added on top of Funcs.
func NewTemplateRenderer(dir string, funcs ...template.FuncMap) *TemplateRenderer {
	fm := make(template.FuncMap, len(Funcs))
	for k, v := range Funcs {
		fm[k] = v
	}
	for _, m := range funcs {
		for k, v := range m {
			fm[k] = v
		}
	}
	return &TemplateRenderer{dir: dir, funcs: fm}
}

// Load parses all templates of the directory. It is called by the first
// Render, and parses only once.
func (r *TemplateRenderer) Load() error {
	r.once.Do(func() {
		r.root, r.err = r.parse()
	})
	return r.err
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	root := template.New("").Funcs(r.funcs)
	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != r.dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}
		buf, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := root.New(filepath.ToSlash(rel)).Parse(string(buf)); err != nil {
			return fmt.Errorf("parse template %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("modelgen: load templates from %s: %w", r.dir, err)
	}
	return root, nil
}

// Templates returns the names of the loaded templates.
func (r *TemplateRenderer) Templates() ([]string, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}
	var names []string
	for _, t := range r.root.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	return names, nil
}

// Render executes the named template with the given context. It is safe for
// concurrent use.
func (r *TemplateRenderer) Render(name string, ctx map[string]any) (string, error) {
	if err := r.Load(); err != nil {
		return "", err
	}
	t := r.root.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found in %s", name, r.dir)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewRenderContext creates the render context of entity e.
func NewRenderContext(g *Graph, e *Entity, now time.Time) RenderContext {
	return RenderContext{
		Entity: e,
		Graph:  g,
		Date:   now.Format(DateLayout),
		Year:   now.Year(),
	}
}

// Map returns the context as passed to the renderer.
func (c RenderContext) Map() map[string]any {
	return map[string]any{
		ContextEntity: c.Entity,
		ContextModel:  c.Graph,
		ContextDate:   c.Date,
		ContextYear:   c.Year,
	}
}
