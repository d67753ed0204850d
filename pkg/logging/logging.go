package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/haferml/hafer/pkg/errors"
)

const appDirName = "hafer"

// Options controls logger setup beyond verbosity.
type Options struct {
	// Verbosity 0 logs warnings, 1 info, 2 debug and 3 or more trace.
	Verbosity  int
	MaxSizeMB  int
	MaxBackups int
	// Console defaults to stderr.
	Console io.Writer
	// NoFile disables the rotating log file.
	NoFile bool
}

// SetupLogger configures the global logger with default options.
func SetupLogger(verbosity int) {
	Configure(Options{Verbosity: verbosity})
}

// Configure replaces the global logger. Records go to the console and, unless
// NoFile is set, to a rotating file under the XDG state home.
func Configure(opts Options) {
	zerolog.SetGlobalLevel(levelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	logFile := getLogFilePath()
	var fileErr error
	if !opts.NoFile {
		var rotating io.Writer
		if rotating, fileErr = openLogFile(logFile, opts.MaxSizeMB, opts.MaxBackups); fileErr == nil {
			writers = append(writers, rotating)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	}
	return zerolog.TraceLevel
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// XDG_STATE_HOME is read on every call so tests can redirect it.
func getLogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return appDirName + ".log"
	}
	return filepath.Join(stateHome, appDirName, appDirName+".log")
}

func openLogFile(path string, maxSizeMB, maxBackups int) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create log folder for %s", path)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxBackups <= 0 {
		maxBackups = 3
	}
	return &lumberjack.Logger{Filename: path, MaxSize: maxSizeMB, MaxBackups: maxBackups}, nil
}

// LogOperationStart logs op at debug level and returns a func that logs its
// completion with the elapsed time.
func LogOperationStart(logger zerolog.Logger, op string) func() {
	start := time.Now()
	logger.Debug().Str("operation", op).Msg("Operation started")
	return func() {
		logger.Debug().Str("operation", op).Dur("duration", time.Since(start)).Msg("Operation completed")
	}
}
