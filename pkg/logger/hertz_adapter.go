package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HertzSlogAdapter routes hertz's hlog output through slog.
// Hertz levels are mapped onto the four slog levels, Trace and Notice fold
// into Debug and Info, Fatal is logged as Error without exiting.
type HertzSlogAdapter struct {
	logger *slog.Logger
	level  hlog.Level
}

var _ hlog.FullLogger = (*HertzSlogAdapter)(nil)

// NewHertzSlogAdapter creates a new Hertz logger adapter using slog
func NewHertzSlogAdapter(logger *slog.Logger) *HertzSlogAdapter {
	return &HertzSlogAdapter{
		logger: logger.With("component", "hertz"),
		level:  hlog.LevelTrace,
	}
}

func toSlogLevel(l hlog.Level) slog.Level {
	switch {
	case l <= hlog.LevelDebug:
		return slog.LevelDebug
	case l <= hlog.LevelNotice:
		return slog.LevelInfo
	case l == hlog.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (h *HertzSlogAdapter) emit(ctx context.Context, l hlog.Level, msg string) {
	if l < h.level {
		return
	}
	h.logger.Log(ctx, toSlogLevel(l), msg)
}

func sprint(v ...interface{}) string {
	if len(v) == 1 {
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(v...)
}

func (h *HertzSlogAdapter) Trace(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelTrace, sprint(v...))
}
func (h *HertzSlogAdapter) Debug(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelDebug, sprint(v...))
}
func (h *HertzSlogAdapter) Info(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelInfo, sprint(v...))
}
func (h *HertzSlogAdapter) Notice(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelNotice, sprint(v...))
}
func (h *HertzSlogAdapter) Warn(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelWarn, sprint(v...))
}
func (h *HertzSlogAdapter) Error(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelError, sprint(v...))
}
func (h *HertzSlogAdapter) Fatal(v ...interface{}) {
	h.emit(context.Background(), hlog.LevelFatal, sprint(v...))
}

func (h *HertzSlogAdapter) Tracef(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelTrace, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Debugf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Infof(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Noticef(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelNotice, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Warnf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Errorf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Fatalf(format string, v ...interface{}) {
	h.emit(context.Background(), hlog.LevelFatal, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelTrace, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelNotice, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	h.emit(ctx, hlog.LevelFatal, fmt.Sprintf(format, v...))
}

// SetLevel drops hertz messages below level before they reach slog
func (h *HertzSlogAdapter) SetLevel(level hlog.Level) {
	h.level = level
}

// SetOutput is a no-op, output is owned by the slog handler
func (h *HertzSlogAdapter) SetOutput(writer io.Writer) {}
