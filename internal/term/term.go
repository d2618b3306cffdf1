// Package term runs the interactive editor on a tcell screen.
//
// The Editor owns the screen and the event loop. All editing goes through
// an editor.Session and every frame is drawn from an editor.Display render;
// the term package only maps keys and mouse events to session operations
// and copies rendered runs into screen cells.
package term

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/editor"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/theme"
)

// ErrNoScreen is returned when no terminal screen could be created.
var ErrNoScreen = errors.New("no terminal screen")

// Settings are the configured layout parameters. A reload compares them
// with the previous settings and applies only what changed.
type Settings struct {
	WrapWidth   int
	LeftPadding int
	TabWidth    int
	Reveal      bool

	// CacheEntries is the render cache size. The live cache cannot be
	// resized, so a change only takes effect after a restart.
	CacheEntries int
}

// Editor is an interactive editing session on a terminal.
type Editor struct {
	screen   tcell.Screen
	session  *editor.Session
	display  *editor.Display
	path     string
	format   format.Format
	settings Settings
	log      *zap.Logger

	top     int
	dirty   bool
	status  string
	quit    bool
	confirm bool
	pressed bool

	// follow keeps the cursor line on screen. Wheel scrolling turns it off
	// until the next key or click.
	follow bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithScreen draws on s instead of the process terminal.
func WithScreen(s tcell.Screen) Option {
	return func(e *Editor) {
		e.screen = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSettings sets the initial layout.
func WithSettings(s Settings) Option {
	return func(e *Editor) {
		e.settings = s
	}
}

// WithStatus sets the message shown until the first key press.
func WithStatus(msg string) Option {
	return func(e *Editor) {
		e.status = msg
	}
}

// New creates an editor for the document in d, saved to path as f.
func New(d *editor.Display, s *editor.Session, path string, f format.Format, opts ...Option) *Editor {
	e := &Editor{
		session:  s,
		display:  d,
		path:     path,
		format:   f,
		settings: Settings{WrapWidth: 80, LeftPadding: 2},
		log:      zap.NewNop(),
		follow:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the file the document is saved to.
func (e *Editor) Path() string {
	return e.path
}

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// Status returns the current status message.
func (e *Editor) Status() string {
	return e.status
}

// reload carries new settings into the event loop.
type reload struct {
	settings Settings
	theme    *theme.Theme
}

// stop ends the event loop.
type stop struct{}

// Reload applies new settings and theme from any goroutine. A nil theme
// keeps the current one.
func (e *Editor) Reload(s Settings, t *theme.Theme) {
	if e.screen == nil {
		return
	}
	_ = e.screen.PostEvent(tcell.NewEventInterrupt(reload{settings: s, theme: t}))
}

// Run initializes the screen and processes events until the user quits or
// ctx is done.
func (e *Editor) Run(ctx context.Context) error {
	if e.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoScreen, err)
		}
		e.screen = s
	}
	if err := e.screen.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrNoScreen, err)
	}
	defer e.screen.Fini()
	e.screen.EnableMouse()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = e.screen.PostEvent(tcell.NewEventInterrupt(stop{}))
		case <-done:
		}
	}()

	e.log.Info("editor started",
		zap.String("path", e.path),
		zap.Stringer("format", e.format),
	)
	e.draw()
	for !e.quit {
		ev := e.screen.PollEvent()
		if ev == nil {
			break
		}
		e.handle(ev)
		if !e.quit {
			e.draw()
		}
	}
	e.log.Info("editor stopped", zap.Bool("unsaved", e.dirty))
	return ctx.Err()
}

func (e *Editor) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		e.handleKey(ev)
	case *tcell.EventMouse:
		e.handleMouse(ev)
	case *tcell.EventResize:
		e.screen.Sync()
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case reload:
			e.applyReload(data)
		case stop:
			e.quit = true
		}
	}
}

func (e *Editor) applyReload(r reload) {
	prev := e.settings
	e.settings = r.settings
	e.status = "Configuration reloaded"
	if r.theme != nil {
		e.display.Renderer().SetTheme(r.theme)
	}
	if r.settings.TabWidth != prev.TabWidth {
		e.display.Renderer().SetTabWidth(r.settings.TabWidth)
	}
	if r.settings.Reveal != prev.Reveal && r.settings.Reveal != e.session.Reveal() {
		e.session.ToggleReveal()
	}
	if r.settings.CacheEntries != prev.CacheEntries {
		e.status = "Configuration reloaded; restart to resize the cache"
	}
	e.log.Info("settings applied",
		zap.Int("wrap_width", r.settings.WrapWidth),
		zap.Int("left_padding", r.settings.LeftPadding),
		zap.Int("tab_width", r.settings.TabWidth),
		zap.Bool("reveal", r.settings.Reveal),
		zap.Int("cache_entries", r.settings.CacheEntries),
	)
}

// save writes the document. Formats that cannot be written are saved as
// FTML next to the original file.
func (e *Editor) save() {
	path, f := e.path, e.format
	if !f.Writable() {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".ftml"
		f = format.FTML
	}
	if err := format.WriteFile(path, f, e.session.Document()); err != nil {
		e.status = "Save failed: " + err.Error()
		e.log.Error("save failed", zap.String("path", path), zap.Error(err))
		return
	}
	e.path, e.format = path, f
	e.dirty = false
	e.status = "Saved " + filepath.Base(path)
	e.log.Info("document saved",
		zap.String("path", path),
		zap.Stringer("format", f),
	)
}
