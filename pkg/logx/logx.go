package logx

import (
	"github.com/sirupsen/logrus"
)

// Package logx is a thin facade over logrus so the rest of the codebase never
// imports a logging library directly.

// Level mirrors the subset of levels the application configures.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Fields is a set of structured log fields.
type Fields map[string]any

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel configures the minimum level that gets emitted.
func SetLevel(level Level) {
	switch level {
	case LevelDebug:
		std.SetLevel(logrus.DebugLevel)
	case LevelWarn:
		std.SetLevel(logrus.WarnLevel)
	case LevelError:
		std.SetLevel(logrus.ErrorLevel)
	default:
		std.SetLevel(logrus.InfoLevel)
	}
}

func Debug(args ...any)                 { std.Debug(args...) }
func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Info(args ...any)                  { std.Info(args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warn(args ...any)                  { std.Warn(args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Error(args ...any)                 { std.Error(args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }

// WithFields returns an entry carrying structured fields.
func WithFields(fields Fields) *logrus.Entry {
	return std.WithFields(logrus.Fields(fields))
}
