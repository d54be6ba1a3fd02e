package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ncobase/ncrud/config"
	"github.com/sirupsen/logrus"
)

// VersionKey is the entry field carrying the build version.
const VersionKey = "version"

// Logger wraps logrus with context-aware helpers.
type Logger struct {
	*logrus.Logger
	version string
	mu      sync.Mutex
	logFile *os.File
	logPath string
	stop    chan struct{}
}

var (
	standardLogger *Logger
	once           sync.Once
)

// New returns a logger writing JSON to stderr at info level.
func New() *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// StdLogger returns the singleton logger instance
func StdLogger() *Logger {
	once.Do(func() {
		standardLogger = New()
	})
	return standardLogger
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.version = v
}

// Init initializes the logger with the given configuration and returns a
// cleanup function.
func (l *Logger) Init(c *config.Logger) (func(), error) {
	if c == nil {
		return func() {}, nil
	}
	l.SetLevel(logrus.Level(c.Level))

	switch c.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		l.logPath = c.OutputFile
		if l.logPath != "" {
			if err := l.setupLogFile(); err != nil {
				return nil, err
			}
			l.stop = make(chan struct{})
			go l.periodicLogRotation(l.stop)
		}
	default:
		l.SetOutput(os.Stdout)
	}

	if len(c.RedactFields) > 0 {
		hook, err := NewRedactHook(c.RedactFields)
		if err != nil {
			return nil, err
		}
		l.AddHook(hook)
	}

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.stop != nil {
			close(l.stop)
			l.stop = nil
		}
		if l.logFile != nil {
			_ = l.logFile.Close()
			l.logFile = nil
		}
	}, nil
}

func (l *Logger) setupLogFile() error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		return err
	}
	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logFilePath := fmt.Sprintf("%s.%s.log", strings.TrimSuffix(l.logPath, ".log"), time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}

	old := l.logFile
	l.logFile = f
	l.SetOutput(f)
	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (l *Logger) periodicLogRotation(stop <-chan struct{}) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := l.rotateLog(); err != nil {
				l.Logger.Errorf("Error rotating log: %v", err)
			}
		}
	}
}

// entryFromContext creates a new log entry with fields from context
func (l *Logger) entryFromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}

	if traceID := getTraceID(ctx); traceID != "" {
		fields[traceKey] = traceID
	}
	if l.version != "" {
		fields[VersionKey] = l.version
	}

	entry := l.WithFields(fields)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}

// EntryWithFields returns an entry carrying the context fields plus the given ones.
func (l *Logger) EntryWithFields(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	return l.entryFromContext(ctx).WithFields(fields)
}

func (l *Logger) log(ctx context.Context, level logrus.Level, args ...any) {
	l.entryFromContext(ctx).Log(level, args...)
}

func (l *Logger) logf(ctx context.Context, level logrus.Level, format string, args ...any) {
	l.entryFromContext(ctx).Logf(level, format, args...)
}

func (l *Logger) Debug(ctx context.Context, args ...any) {
	l.log(ctx, logrus.DebugLevel, args...)
}
func (l *Logger) Info(ctx context.Context, args ...any) {
	l.log(ctx, logrus.InfoLevel, args...)
}
func (l *Logger) Warn(ctx context.Context, args ...any) {
	l.log(ctx, logrus.WarnLevel, args...)
}
func (l *Logger) Error(ctx context.Context, args ...any) {
	l.log(ctx, logrus.ErrorLevel, args...)
}

func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.DebugLevel, format, args...)
}
func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.InfoLevel, format, args...)
}
func (l *Logger) Warnf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.WarnLevel, format, args...)
}
func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.ErrorLevel, format, args...)
}
func (l *Logger) Fatalf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.FatalLevel, format, args...)
}

// Package-level helpers on StdLogger.

func SetVersion(v string)                   { StdLogger().SetVersion(v) }
func Init(c *config.Logger) (func(), error) { return StdLogger().Init(c) }
func SetOutput(out io.Writer)               { StdLogger().SetOutput(out) }

func EntryWithFields(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	return StdLogger().EntryWithFields(ctx, fields)
}

func Debug(ctx context.Context, args ...any) { StdLogger().Debug(ctx, args...) }
func Info(ctx context.Context, args ...any)  { StdLogger().Info(ctx, args...) }
func Warn(ctx context.Context, args ...any)  { StdLogger().Warn(ctx, args...) }
func Error(ctx context.Context, args ...any) { StdLogger().Error(ctx, args...) }

func Debugf(ctx context.Context, format string, args ...any) {
	StdLogger().Debugf(ctx, format, args...)
}
func Infof(ctx context.Context, format string, args ...any) {
	StdLogger().Infof(ctx, format, args...)
}
func Warnf(ctx context.Context, format string, args ...any) {
	StdLogger().Warnf(ctx, format, args...)
}
func Errorf(ctx context.Context, format string, args ...any) {
	StdLogger().Errorf(ctx, format, args...)
}
func Fatalf(ctx context.Context, format string, args ...any) {
	StdLogger().Fatalf(ctx, format, args...)
}
