// Package logging provides a small sugared-logger-shaped interface over
// zap, plus constructors for production, development, and test use.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the structured-logging surface the rest of this module depends
// on, modeled on zap's SugaredLogger key-value methods.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Named(name string) Logger
	Sync() error
}

type sugaredLogger struct {
	*zap.SugaredLogger
}

func (l *sugaredLogger) Named(name string) Logger {
	return &sugaredLogger{l.SugaredLogger.Named(name)}
}

// NewDevelopmentLogger returns a human-readable console logger suitable
// for a local coordinator process.
func NewDevelopmentLogger(name string) (Logger, error) {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &sugaredLogger{zl.Named(name).Sugar()}, nil
}

// NewProductionLogger returns a JSON logger suitable for a deployed
// coordinator process.
func NewProductionLogger(name string) (Logger, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &sugaredLogger{zl.Named(name).Sugar()}, nil
}

// NewTestLogger returns a logger built from zap's example config, which
// writes debug-level and higher entries as JSON (without timestamps) to
// standard output, for use in _test.go files that just want logs without
// asserting on them.
func NewTestLogger() Logger {
	zl := zap.NewExample()
	return &sugaredLogger{zl.Sugar()}
}

// NewObservedTestLogger returns a logger backed by zaptest/observer,
// letting tests assert on emitted log entries directly.
func NewObservedTestLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	zl := zap.New(core)
	return &sugaredLogger{zl.Sugar()}, logs
}
