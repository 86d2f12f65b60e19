package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// LoggerConfig describes where and what to log.
type LoggerConfig struct {
	Level         string
	Format        string
	EnableConsole bool
	// Console is the console destination, stderr when nil.
	Console    io.Writer
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// DefaultLoggerConfig logs warnings and above to stderr.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:         "warn",
		Format:        FormatConsole,
		EnableConsole: true,
		MaxSizeMB:     10,
		MaxBackups:    3,
	}
}

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config LoggerConfig
}

func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{config: DefaultLoggerConfig()}
}

func (lb *LoggerBuilder) WithLevel(level string) *LoggerBuilder {
	if level != "" {
		lb.config.Level = level
	}
	return lb
}

// WithFile adds a rotating log file. An empty path leaves file logging off.
func (lb *LoggerBuilder) WithFile(path string) *LoggerBuilder {
	lb.config.FilePath = path
	return lb
}

// WithConsole enables or disables console output. Interactive views turn it off so log lines do not tear
// the screen.
func (lb *LoggerBuilder) WithConsole(enabled bool) *LoggerBuilder {
	lb.config.EnableConsole = enabled
	return lb
}

func (lb *LoggerBuilder) WithConsoleWriter(w io.Writer) *LoggerBuilder {
	lb.config.Console = w
	return lb
}

func (lb *LoggerBuilder) WithFormat(format string) *LoggerBuilder {
	lb.config.Format = format
	return lb
}

// Build creates the logger. The returned closer releases the log file and must be called on exit. A builder
// with no outputs yields a disabled logger.
func (lb *LoggerBuilder) Build() (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(lb.config.Level))
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level %q: %w", lb.config.Level, err)
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if lb.config.EnableConsole {
		out := lb.config.Console
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, lb.formatWriter(out, false))
	}

	if lb.config.FilePath != "" {
		if lb.config.MaxSizeMB <= 0 {
			return zerolog.Nop(), nopCloser{}, errors.New("max log size must be positive")
		}
		if err := os.MkdirAll(filepath.Dir(lb.config.FilePath), 0755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   lb.config.FilePath,
			MaxSize:    lb.config.MaxSizeMB,
			MaxBackups: lb.config.MaxBackups,
			LocalTime:  true,
		}
		writers = append(writers, lb.formatWriter(file, true))
		closer = file
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}

func (lb *LoggerBuilder) formatWriter(out io.Writer, noColor bool) io.Writer {
	if lb.config.Format == FormatJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
