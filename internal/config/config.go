package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkwell/internal/config/loader"
)

// Config is the complete inkwell configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
	Theme  ThemeConfig  `toml:"theme"`
}

// EditorConfig holds layout and editing settings.
type EditorConfig struct {
	WrapWidth    int     `toml:"wrap_width" validate:"gte=1,lte=1000"`
	LeftPadding  int     `toml:"left_padding" validate:"gte=0,lte=200"`
	TabWidth     int     `toml:"tab_width" validate:"gte=1,lte=16"`
	Reveal       bool    `toml:"reveal"`
	PageFraction float64 `toml:"page_fraction" validate:"gt=0,lte=1"`
}

// CacheConfig holds render cache settings.
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries" validate:"gte=1"`
}

// LogConfig holds logging settings. An empty File disables the file sink.
type LogConfig struct {
	Level      string `toml:"level" validate:"oneof=debug info warn error"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `toml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `toml:"max_age_days" validate:"gte=0"`
	Console    bool   `toml:"console"`
}

// ThemeConfig names an optional YAML theme file.
type ThemeConfig struct {
	Path string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			WrapWidth:    80,
			LeftPadding:  2,
			TabWidth:     4,
			PageFraction: 0.9,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 4096,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "inkwell", "config.toml")
}

// loadOptions controls Load.
type loadOptions struct {
	path    string
	fs      loader.FileSystem
	environ []string
	useEnv  bool
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithFile sets the TOML file to read. An empty path skips the file layer.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithFS reads the file through fsys.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnviron replaces the process environment with a fixed KEY=value list.
func WithEnviron(environ []string) LoadOption {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load assembles, decodes and validates the configuration.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{fs: loader.DefaultFS(), useEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	fileMap, err := loader.NewTOMLLoaderWithFS(o.fs, o.path).Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, fileMap)

	if o.useEnv {
		env := loader.NewEnvLoader(loader.DefaultEnvPrefix)
		if o.environ != nil {
			env = loader.NewEnvLoaderWithEnviron(loader.DefaultEnvPrefix, o.environ)
		}
		envMap, err := env.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, envMap)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap converts a Config into the generic map form used for merging.
func toMap(cfg *Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return m, nil
}

// decode converts a merged map into a Config, rejecting unknown keys.
func decode(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.TrimSpace(strict.String()))
		}
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every setting against its rules.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		// Namespace is "Config.editor.wrap_width"; drop the type name.
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		out.Fields = append(out.Fields, FieldError{
			Path:  path,
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

// CacheEntries returns the render cache size, or 0 when caching is off.
func (c *Config) CacheEntries() int {
	if !c.Cache.Enabled {
		return 0
	}
	return c.Cache.MaxEntries
}
