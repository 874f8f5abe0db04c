package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/itechmeat/start-vibe-project/internal/config"
	"github.com/itechmeat/start-vibe-project/internal/constants"
	"github.com/itechmeat/start-vibe-project/internal/logging"
)

// logFileWriter holds the log file writer for cleanup on exit.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // closed by CloseLogFile

// zerologConfigOnce ensures zerolog global settings are configured exactly once.
var zerologConfigOnce sync.Once //nolint:gochecknoglobals // one-time configuration

// zerologGlobalMu protects writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // protects zerolog global

// configureZerologGlobals renames the timestamp and message fields.
func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimestampFieldName = "ts"
		zerolog.MessageFieldName = "event"
	})
}

// loggerOptions selects the level and sinks of the CLI logger.
type loggerOptions struct {
	// Level is the configured level name; flags take precedence over it.
	Level   string
	Verbose bool
	Quiet   bool
	Debug   bool
	// File enables the rotating log file.
	File bool
	// Console overrides the stderr console writer. Used by tests.
	Console io.Writer
}

// InitLogger creates the CLI logger: console on stderr plus, when enabled,
// the rotating file under the XDG state directory. Each logger carries a
// fresh run_id. A log file that cannot be opened is reported once on the
// console and otherwise ignored.
func InitLogger(opts loggerOptions) zerolog.Logger {
	configureZerologGlobals()

	console := opts.Console
	if console == nil {
		console = selectOutput()
	}

	writer := console
	var fileErr error
	if opts.File {
		var fw io.WriteCloser
		fw, fileErr = createLogFileWriter(config.LogFilePath())
		if fileErr == nil {
			logFileWriter = fw
			writer = zerolog.MultiLevelWriter(console, fw)
		}
	}

	logger := zerolog.New(writer).
		Level(selectLevel(opts)).
		Hook(logging.SensitiveDataHook{}).
		With().
		Timestamp().
		Str("run_id", newRunID()).
		Logger()

	if fileErr != nil {
		logger.Warn().Err(fileErr).Msg("log file disabled")
	}

	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger keeps zerolog's global logger in line with the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

// CloseLogFile closes the log file writer if one was opened.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// newRunID returns "run-" plus the first 8 characters of a UUID.
func newRunID() string {
	return "run-" + uuid.NewString()[:8]
}

// selectLevel applies, in order: DEBUG, --verbose, --quiet, the configured
// level, info.
func selectLevel(opts loggerOptions) zerolog.Level {
	switch {
	case opts.Debug, opts.Verbose:
		return zerolog.DebugLevel
	case opts.Quiet:
		return zerolog.WarnLevel
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level)); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

// debugEnabled reports whether DEBUG is set to true or 1.
func debugEnabled() bool {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// selectOutput uses the console writer on a TTY without NO_COLOR and JSON
// on stderr otherwise.
func selectOutput() io.Writer {
	if _, noColor := os.LookupEnv("NO_COLOR"); !noColor && term.IsTerminal(int(os.Stderr.Fd())) { //nolint:gosec // G115: file descriptors fit in int
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser redacts secrets before they reach the log file.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

func (fwc *filteringWriteCloser) Write(p []byte) (int, error) {
	return fwc.filter.Write(p)
}

func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter opens a rotating, secret-filtering writer at path.
func createLogFileWriter(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}
