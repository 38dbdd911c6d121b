package gen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period a Watcher waits for after the last
// change before it regenerates.
const DefaultDebounce = 200 * time.Millisecond

// Watcher regenerates the files of a configuration whenever its data model
// or its templates change.
type Watcher struct {
	cfg *Config
	// Debounce is the quiet period after the last change.
	Debounce time.Duration
	// OnGenerate, if set, is called with the result of every run.
	OnGenerate func(error)

	generate func(context.Context, *Config) error
}

// NewWatcher creates a watcher for the given configuration.
func NewWatcher(cfg *Config) *Watcher {
	return &Watcher{
		cfg:      cfg,
		Debounce: DefaultDebounce,
		generate: Generate,
	}
}

// Paths returns the directories watched for changes: the directory tree of
// the data model and of the templates. A data model file is watched through
// its parent directory. The output directory tree is never watched.
func (w *Watcher) Paths() ([]string, error) {
	var (
		paths []string
		seen  = make(map[string]bool)
	)
	add := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && w.generated(path) {
				return filepath.SkipDir
			}
			if d.IsDir() && !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
			return nil
		})
	}
	model := w.cfg.DataModelPath
	info, err := os.Stat(model)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		model = filepath.Dir(model)
	}
	if err := add(model); err != nil {
		return nil, err
	}
	if w.cfg.TemplatePath != "" {
		if err := add(w.cfg.TemplatePath); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// Run generates once, then regenerates on every debounced change until ctx
// is done. Generation errors are reported and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.cfg.Validate(); err != nil {
		return err
	}
	paths, err := w.Paths()
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return err
		}
	}
	log := w.cfg.logger()
	log.Info("watching for changes", "paths", paths)
	w.run(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || w.generated(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						log.Warn("watch directory", "path", ev.Name, "error", err)
					}
				}
			}
			log.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce())
			} else {
				timer.Reset(w.debounce())
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			w.run(ctx)
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	err := w.generate(ctx, w.cfg)
	if err != nil {
		w.cfg.logger().Error("generation failed", "error", err)
	}
	if w.OnGenerate != nil {
		w.OnGenerate(err)
	}
}

// generated reports whether path lies in the output directory. Writes of a
// run must not trigger the next one.
func (w *Watcher) generated(path string) bool {
	if w.cfg.OutputDirectory == "" {
		return false
	}
	out, err := filepath.Abs(w.cfg.OutputDirectory)
	if err != nil {
		return false
	}
	p, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) debounce() time.Duration {
	if w.Debounce > 0 {
		return w.Debounce
	}
	return DefaultDebounce
}
