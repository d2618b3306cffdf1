// Package main is the entry point for the inkwell editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/ansi"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/config/loader"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/editor"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/render"
	"github.com/dshills/inkwell/internal/term"
	"github.com/dshills/inkwell/internal/theme"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultFile is opened when no file is named.
const defaultFile = "untitled.ftml"

type options struct {
	configPath string
	logLevel   string
	format     string
	width      int
	reveal     bool
	dump       bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if err := loader.LoadDotenv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg, opts.dump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		return 1
	}
	defer logger.Close()

	th, err := loadTheme(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	f := format.Detect(opts.file)
	if opts.format != "" {
		if f, err = format.ParseName(opts.format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	doc, status := openDocument(opts.file, f, logger.Logger)

	var cache *render.Cache
	if n := cfg.CacheEntries(); n > 0 {
		cache = render.NewCache(n)
	}
	renderer := render.New(
		render.WithTheme(th),
		render.WithCache(cache),
		render.WithTabWidth(cfg.Editor.TabWidth),
		render.WithLogger(logger.Logger),
	)
	session := editor.New(doc,
		editor.WithLogger(logger.Logger),
		editor.WithReveal(cfg.Editor.Reveal),
	)
	display := editor.NewDisplay(session,
		editor.WithRenderer(renderer),
		editor.WithPageFraction(cfg.Editor.PageFraction),
	)

	if opts.dump {
		res := display.Render(cfg.Editor.WrapWidth, cfg.Editor.LeftPadding, nil)
		if err := ansi.New(os.Stdout).WriteResult(res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	ed := term.New(display, session, opts.file, f,
		term.WithScreen(screen),
		term.WithLogger(logger.Logger),
		term.WithSettings(settings(cfg)),
		term.WithStatus(status),
	)

	if reloader := watchConfig(opts, cfg, ed, logger.Logger); reloader != nil {
		defer reloader.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.format, "format", "", "File format (ftml, markdown, docx); detected from the extension by default")
	flag.IntVar(&opts.width, "width", 0, "Wrap width, overriding the configuration")
	flag.BoolVar(&opts.reveal, "reveal", false, "Start in reveal mode")
	flag.BoolVar(&opts.dump, "dump", false, "Print the rendered document and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "inkwell - structured rich-text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwell [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkwell notes.ftml           Edit a document\n")
		fmt.Fprintf(os.Stderr, "  inkwell README.md            Edit Markdown\n")
		fmt.Fprintf(os.Stderr, "  inkwell -dump -width 60 a.md Print a document\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("inkwell %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	if opts.configPath == "" {
		opts.configPath = config.DefaultPath()
	}
	opts.file = flag.Arg(0)
	if opts.file == "" {
		opts.file = defaultFile
	}
	return opts
}

// loadConfig loads the configuration and applies command line overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(config.WithFile(opts.configPath))
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.width > 0 {
		cfg.Editor.WrapWidth = opts.width
	}
	if opts.reveal {
		cfg.Editor.Reveal = true
	}
	return cfg, cfg.Validate()
}

// newLogger builds the logger. The console sink would draw over the
// editor, so it is only honored when dumping.
func newLogger(cfg *config.Config, console bool) (*logging.Logger, error) {
	l, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    cfg.Log.Console && console,
	})
	if errors.Is(err, logging.ErrNoSink) {
		return logging.Nop(), nil
	}
	return l, err
}

func loadTheme(cfg *config.Config) (*theme.Theme, error) {
	if cfg.Theme.Path == "" {
		return theme.Default(), nil
	}
	return theme.Load(cfg.Theme.Path)
}

func settings(cfg *config.Config) term.Settings {
	return term.Settings{
		WrapWidth:    cfg.Editor.WrapWidth,
		LeftPadding:  cfg.Editor.LeftPadding,
		TabWidth:     cfg.Editor.TabWidth,
		Reveal:       cfg.Editor.Reveal,
		CacheEntries: cfg.CacheEntries(),
	}
}

// openDocument reads path. A missing file starts a new document; a file
// that cannot be read or parsed starts an empty one and says why.
func openDocument(path string, f format.Format, log *zap.Logger) (*document.Document, string) {
	doc, err := format.ReadFile(path, f)
	switch {
	case err == nil:
		log.Info("document opened",
			zap.String("path", path),
			zap.Stringer("format", f),
			zap.Int("paragraphs", len(doc.Paragraphs)),
		)
		return doc, "Opened " + filepath.Base(path)
	case errors.Is(err, fs.ErrNotExist):
		return nil, "New document"
	default:
		log.Warn("document not loaded", zap.String("path", path), zap.Error(err))
		return nil, err.Error()
	}
}

// watchConfig reloads settings and theme when their files change. Files
// that do not exist are not watched.
func watchConfig(opts options, cfg *config.Config, ed *term.Editor, log *zap.Logger) *config.Reloader {
	var paths []string
	for _, p := range []string{opts.configPath, cfg.Theme.Path} {
		if _, err := os.Stat(p); p != "" && err == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	load := func() (*config.Config, error) { return loadConfig(opts) }
	apply := func(c *config.Config, err error) {
		if err != nil {
			return
		}
		th, err := loadTheme(c)
		if err != nil {
			log.Warn("theme reload failed", zap.Error(err))
			th = nil
		}
		ed.Reload(settings(c), th)
	}
	r, err := config.Watch(load, apply, log, paths)
	if err != nil {
		log.Warn("config watch disabled", zap.Error(err))
		return nil
	}
	return r
}
