package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/render"
)

// Default configuration values.
const (
	DefaultPageFraction = 0.9
)

// Option configures a Session during creation.
type Option func(*Session)

// WithLogger sets the logger. The session adds its own "session" field.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithReveal starts the session in reveal mode.
func WithReveal(reveal bool) Option {
	return func(s *Session) {
		s.reveal = reveal
	}
}

// WithID sets the session identifier instead of a random one.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// DisplayOption configures a Display during creation.
type DisplayOption func(*Display)

// WithRenderer sets the renderer used by the display.
func WithRenderer(r *render.Renderer) DisplayOption {
	return func(d *Display) {
		if r != nil {
			d.renderer = r
		}
	}
}

// WithPageFraction sets the share of the view height a page move covers.
func WithPageFraction(f float64) DisplayOption {
	return func(d *Display) {
		if f > 0 && f <= 1 {
			d.pageFraction = f
		}
	}
}
