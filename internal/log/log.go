// Package log provides the leveled logger used throughout the scanner.
// The default backend is charmbracelet/log writing to stderr.
package log

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// Logger is the interface for logging scan progress and warnings.
type Logger interface {
	Errorf(format string, args ...any)
	Error(args ...any)
	Warnf(format string, args ...any)
	Warn(args ...any)
	Infof(format string, args ...any)
	Info(args ...any)
	Debugf(format string, args ...any)
	Debug(args ...any)
}

var logger Logger = New(os.Stderr, false)

// SetLogger replaces the package logger.
func SetLogger(l Logger) { logger = l }

// New returns a charmbracelet logger writing to w.
func New(w io.Writer, debug bool) Logger {
	level := clog.InfoLevel
	if debug {
		level = clog.DebugLevel
	}
	return &charmLogger{l: clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		Prefix:          "refindplus",
		Level:           level,
	})}
}

// charmLogger adapts clog's key/value methods to the Sprint-style interface.
type charmLogger struct {
	l *clog.Logger
}

func (c *charmLogger) Errorf(format string, args ...any) { c.l.Errorf(format, args...) }
func (c *charmLogger) Warnf(format string, args ...any)  { c.l.Warnf(format, args...) }
func (c *charmLogger) Infof(format string, args ...any)  { c.l.Infof(format, args...) }
func (c *charmLogger) Debugf(format string, args ...any) { c.l.Debugf(format, args...) }
func (c *charmLogger) Error(args ...any)                 { c.l.Error(fmt.Sprint(args...)) }
func (c *charmLogger) Warn(args ...any)                  { c.l.Warn(fmt.Sprint(args...)) }
func (c *charmLogger) Info(args ...any)                  { c.l.Info(fmt.Sprint(args...)) }
func (c *charmLogger) Debug(args ...any)                 { c.l.Debug(fmt.Sprint(args...)) }

// Discard returns a logger that drops everything. Used by tests.
func Discard() Logger { return New(io.Discard, false) }

func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
func Error(args ...any)                 { logger.Error(args...) }
func Warn(args ...any)                  { logger.Warn(args...) }
func Info(args ...any)                  { logger.Info(args...) }
func Debug(args ...any)                 { logger.Debug(args...) }
