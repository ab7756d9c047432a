// Package logging builds the diagnostic logger. Dispatch failures are written
// here in full while the user only ever sees the fixed error text.
package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the diagnostic logger.
type Options struct {
	File       string // Log file path; empty disables logging
	Level      string // debug, info, warn, error
	MaxSizeMB  int
	MaxAgeDays int
}

// New returns a JSON logger writing to a rotating file. A no-op logger is
// returned when no file is configured.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}
	maxAge := opts.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 7
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	core := zapcore.NewCore(encoder,
		zapcore.AddSync(&lumberjack.Logger{
			Filename: opts.File, MaxSize: maxSize, MaxAge: maxAge, Compress: true,
		}),
		level,
	)
	return zap.New(core), nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

type traceKey struct{}

// WithTrace attaches a trace id to ctx for LogDuration.
func WithTrace(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID returns the trace id attached with WithTrace, or "".
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}

// LogDuration lets you do: defer logging.LogDuration(ctx, logger, "FuncName")()
func LogDuration(ctx context.Context, logger *zap.Logger, name string) func() {
	start := time.Now()
	traceID := TraceID(ctx)

	return func() {
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		logger.Debug("Function timed", fields...)
	}
}
