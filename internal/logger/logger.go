package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

type Logger struct {
	log      *slog.Logger
	pkg      string
	file     string
	function string
}

var base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// SetDefault swaps the handler every Logger created afterwards writes to.
func SetDefault(handler slog.Handler) {
	base = slog.New(handler)
	slog.SetDefault(base)
}

func New(pkg string) Logger {
	return Logger{
		log: base.With("package", pkg),
		pkg: pkg,
	}
}

func (l Logger) File(file string) Logger {
	l.file = file
	l.log = l.log.With("file", file)
	return l
}

func (l Logger) Function(function string) Logger {
	l.function = function
	l.log = l.log.With("function", function)
	return l
}

func (l Logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

// Err logs msg with err and returns err wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.log.Error(msg, append([]any{"error", err}, args...)...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs without returning anything; for paths that only report.
func (l Logger) Er(msg string, err error, args ...any) {
	l.log.Error(msg, append([]any{"error", err}, args...)...)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.log.Error(msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.log.Error(msg)
	return errors.New(msg)
}

func (l Logger) ErMsg(msg string) {
	l.log.Error(msg)
}

func (l Logger) Slog() *slog.Logger {
	return l.log
}
