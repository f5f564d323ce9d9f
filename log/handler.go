// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// levelHandler filters records on a level that can change while running,
// forwarding the enabled ones to the wrapped handler.
type levelHandler struct {
	level *slog.LevelVar
	inner slog.Handler
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithGroup(name)}
}

// NewTerminalHandlerWithLevel returns the terminal handler of go-ethereum filtered by level.
func NewTerminalHandlerWithLevel(w io.Writer, level *slog.LevelVar, color bool) slog.Handler {
	return &levelHandler{
		level: level,
		inner: ethlog.NewTerminalHandlerWithLevel(w, LevelTrace, color),
	}
}

// JSONHandlerWithLevel returns a handler printing records in JSON format filtered by level.
func JSONHandlerWithLevel(w io.Writer, level *slog.LevelVar) slog.Handler {
	return &levelHandler{
		level: level,
		inner: ethlog.JSONHandlerWithLevel(w, LevelTrace),
	}
}
