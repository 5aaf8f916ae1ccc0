// Package logging builds zerolog loggers for the CLI and hands them to the core by value.
// There is no package-level logger; callers own the logger they construct.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

// LogFileRelPath is the log file location relative to the XDG state home.
const LogFileRelPath = "agentsync/agentsync.log"

// LevelForVerbosity maps a -v count to a zerolog level.
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// New returns a console logger writing to out at the level implied by verbosity.
// Debug and trace levels include caller information.
func New(out io.Writer, verbosity int) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}
	logger := zerolog.New(console).Level(LevelForVerbosity(verbosity)).With().Timestamp().Logger()
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// WithFile returns a logger that writes to out and to the XDG state log file.
// If the log file cannot be opened the console-only logger is returned and the failure is logged.
// The returned closer must be called when logging is finished.
func WithFile(out io.Writer, verbosity int) (zerolog.Logger, io.Closer) {
	path, err := LogFilePath()
	if err == nil {
		var file *os.File
		file, err = openLogFile(path)
		if err == nil {
			console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
			multi := zerolog.MultiLevelWriter(console, file)
			logger := zerolog.New(multi).Level(LevelForVerbosity(verbosity)).With().Timestamp().Logger()
			if verbosity >= 2 {
				logger = logger.With().Caller().Logger()
			}
			return logger, file
		}
	}
	logger := New(out, verbosity)
	logger.Warn().Err(err).Str("path", path).Msg("failed to open log file, logging to console only")
	return logger, io.NopCloser(nil)
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// LogFilePath returns the log file path under XDG_STATE_HOME, creating parent directories.
func LogFilePath() (string, error) {
	return xdg.StateFile(LogFileRelPath)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
