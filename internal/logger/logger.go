// Package logger wraps logrus with context-carried fields and a small metric-entry API.
//
// Request and source fields travel in the context; numeric fields such as duration_ms and
// count are attached per line through Entry.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Logger is a logrus entry with the service field attached.
type Logger struct {
	*logrus.Entry
}

// Config describes where and how logs are written.
type Config struct {
	Level   string    // debug, info, warn, error
	Format  string    // json or text
	Output  io.Writer // nil writes to stdout
	Service string

	// File, when set, adds a rotating log file next to Output.
	File     string
	FileOnly bool
	Rotation Rotation
}

// Rotation controls lumberjack file rotation.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	fileWriter   io.Closer
	fileWriterMu sync.Mutex
)

// New creates a Logger. A nil cfg logs JSON at info level to stdout.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSizeMB,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAgeDays,
			Compress:   cfg.Rotation.Compress,
		}
		fileWriterMu.Lock()
		fileWriter = rotating
		fileWriterMu.Unlock()

		if cfg.FileOnly {
			out = rotating
		} else {
			out = io.MultiWriter(out, rotating)
		}
	}

	service := cfg.Service
	if service == "" {
		service = "memeforge"
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(parseLevel(cfg.Level))
	log.SetReportCaller(true)
	log.SetFormatter(formatter(cfg.Format))

	return &Logger{Entry: log.WithField("service", service)}
}

// NewDefault creates a Logger configured from the environment. See ConfigFromEnv.
func NewDefault() *Logger {
	return New(ConfigFromEnv())
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(&Config{Level: "panic", Format: "text", Output: io.Discard})
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT and SERVICE_NAME. Outside APP_ENV=local it also
// writes to LOG_FILE, rotated per LOG_MAX_SIZE, LOG_MAX_BACKUPS, LOG_MAX_AGE and LOG_COMPRESS.
func ConfigFromEnv() *Config {
	cfg := &Config{
		Level:   envString("LOG_LEVEL", "info"),
		Format:  envString("LOG_FORMAT", "json"),
		Service: envString("SERVICE_NAME", "memeforge"),
	}
	if envString("APP_ENV", "local") == "local" {
		return cfg
	}

	cfg.File = envString("LOG_FILE", "/var/log/memeforge/app.log")
	cfg.FileOnly = envBool("LOG_FILE_ONLY", false)
	cfg.Rotation = Rotation{
		MaxSizeMB:  envInt("LOG_MAX_SIZE", 100),
		MaxBackups: envInt("LOG_MAX_BACKUPS", 7),
		MaxAgeDays: envInt("LOG_MAX_AGE", 30),
		Compress:   envBool("LOG_COMPRESS", true),
	}
	return cfg
}

// Sync closes the rotating log file, if one is open. Call it before exit.
func Sync() error {
	fileWriterMu.Lock()
	defer fileWriterMu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}

// WithFields returns a new Logger with additional fields.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{Entry: l.Entry.WithFields(logrus.Fields(fields))}
}

// WithField returns a new Logger with a single additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithField(key, value)}
}

// WithError returns a new Logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Entry: l.Entry.WithError(err)}
}

func parseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func formatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "text") {
		return &logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  timestampFormat,
			CallerPrettyfier: shortCaller,
		}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: timestampFormat,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
		CallerPrettyfier: shortCaller,
	}
}

// shortCaller reports callers as pkg.Func and file.go:line.
func shortCaller(frame *runtime.Frame) (string, string) {
	fn := frame.Function
	if idx := strings.LastIndex(fn, "/"); idx != -1 {
		fn = fn[idx+1:]
	}
	return fn, filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
