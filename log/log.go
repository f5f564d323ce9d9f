// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is the logging facade of the node. It forwards records to the
// go-ethereum slog based root logger, which the binary configures at startup.
package log

import (
	"fmt"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes leveled key/value records.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

// Levels of the records.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Legacy verbosity levels accepted by the command line.
const (
	LvlCrit  = 0
	LvlError = 1
	LvlWarn  = 2
	LvlInfo  = 3
	LvlDebug = 4
	LvlTrace = 5
)

// WithContext returns a logger that carries ctx on every record. The root
// logger is resolved per call, so package level loggers honour handlers
// installed after package initialization.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) inner() ethlog.Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.inner().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.inner().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.inner().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.inner().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.inner().Error(msg, ctx...) }

// Crit logs at the highest level and exits the process.
func (l *lazyLogger) Crit(msg string, ctx ...any) { l.inner().Crit(msg, ctx...) }

// Root level shortcuts.

func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }

// Setup installs the root handler and returns the level it filters on, which may be
// changed while running. The verbosity is a legacy 0-5 level.
func Setup(w io.Writer, verbosity int, json, color bool) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(ethlog.FromLegacyLevel(verbosity))

	var h slog.Handler
	if json {
		h = JSONHandlerWithLevel(w, level)
	} else {
		h = NewTerminalHandlerWithLevel(w, level, color)
	}
	ethlog.SetDefault(ethlog.NewLogger(h))
	return level
}

// ParseLevel parses a level name as accepted by the admin API.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "crit":
		return LevelCrit, nil
	}
	return 0, fmt.Errorf("unknown level %q", name)
}

// Discard silences all logging, mostly for tests.
func Discard() {
	ethlog.SetDefault(ethlog.NewLogger(ethlog.DiscardHandler()))
}
