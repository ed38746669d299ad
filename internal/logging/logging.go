package logging

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/keagan/vidfx/internal/config"
)

// Init initializes the global logger. colorMode is one of the config.Color*
// values.
func Init(verbose bool, colorMode string) {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    !colorEnabled(colorMode, os.Stderr.Fd()),
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// WithComponent creates a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// colorEnabled decides whether console output on fd should be colored.
// NO_COLOR disables color in auto mode.
func colorEnabled(mode string, fd uintptr) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(fd)
}

// IsTerminal reports whether fd is an interactive terminal
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
