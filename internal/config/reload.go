package config

import (
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/config/watcher"
)

// Reloader reloads the configuration whenever a watched file changes.
type Reloader struct {
	w    *watcher.Watcher
	load func() (*Config, error)
	fn   func(*Config, error)
	log  *zap.Logger
}

// Watch starts watching paths (typically the config file and the theme
// file). After each debounced change load is called and its result passed
// to fn. Empty paths are ignored. Close the Reloader to stop.
func Watch(load func() (*Config, error), fn func(*Config, error), log *zap.Logger, paths []string, opts ...watcher.Option) (*Reloader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := watcher.New(append([]watcher.Option{watcher.WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := w.Watch(p); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	r := &Reloader{w: w, load: load, fn: fn, log: log}
	w.OnChange(r.reload)
	w.Start()
	return r, nil
}

func (r *Reloader) reload(ev watcher.Event) {
	r.log.Info("config file changed",
		zap.String("path", ev.Path),
		zap.Stringer("op", ev.Op),
	)
	cfg, err := r.load()
	if err != nil {
		r.log.Warn("config reload failed", zap.Error(err))
	}
	r.fn(cfg, err)
}

// Files returns the watched files.
func (r *Reloader) Files() []string {
	return r.w.WatchedFiles()
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.w.Close()
}
