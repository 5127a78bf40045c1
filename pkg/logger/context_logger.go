package logger

import (
	"context"
	"time"

	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for a single log entry and pulls
// request metadata (request id, user id, module, function) out of the
// context so call sites don't repeat it.
type ContextLogBuilder struct {
	level   zapcore.Level
	message string
	fields  []zap.Field
}

func newBuilder(ctx context.Context, level zapcore.Level, message string) *ContextLogBuilder {
	clb := &ContextLogBuilder{
		level:   level,
		message: message,
		fields:  make([]zap.Field, 0, 12),
	}
	clb.extractContextFields(ctx)
	return clb
}

func (clb *ContextLogBuilder) extractContextFields(ctx context.Context) {
	if ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		clb.fields = append(clb.fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(ctx); clientIP != "" {
		clb.fields = append(clb.fields, zap.String("client_ip", clientIP))
	}
	if userAgent := ctxutil.GetUserAgent(ctx); userAgent != "" {
		clb.fields = append(clb.fields, zap.String("user_agent", userAgent))
	}
	if userID, ok := ctxutil.GetUserID(ctx); ok {
		clb.fields = append(clb.fields, zap.Uint("user_id", userID))
	}
	if module := ctxutil.GetModule(ctx); module != "" {
		clb.fields = append(clb.fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(ctx); function != "" {
		clb.fields = append(clb.fields, zap.String("function", function))
	}
	if duration := ctxutil.GetDuration(ctx); duration > 0 {
		clb.fields = append(clb.fields, zap.Duration("elapsed", duration))
	}
}

// Entry points, one per level.

func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.DebugLevel, message)
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.InfoLevel, message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.WarnLevel, message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.ErrorLevel, message)
}

// Field methods.

func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.String(key, value))
	return clb
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Int(key, value))
	return clb
}

func (clb *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Int64(key, value))
	return clb
}

func (clb *ContextLogBuilder) Uint(key string, value uint) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Uint(key, value))
	return clb
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Bool(key, value))
	return clb
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Duration("duration", value))
	return clb
}

func (clb *ContextLogBuilder) Time(key string, value time.Time) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Time(key, value))
	return clb
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if err != nil {
		clb.fields = append(clb.fields, zap.Error(err))
	}
	return clb
}

func (clb *ContextLogBuilder) Any(key string, value interface{}) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Any(key, value))
	return clb
}

// Log emits the accumulated entry. A nil global logger (tests that never
// call InitLogger) is a no-op.
func (clb *ContextLogBuilder) Log() {
	if Logger == nil {
		return
	}

	switch clb.level {
	case zapcore.DebugLevel:
		Logger.Debug(clb.message, clb.fields...)
	case zapcore.InfoLevel:
		Logger.Info(clb.message, clb.fields...)
	case zapcore.WarnLevel:
		Logger.Warn(clb.message, clb.fields...)
	case zapcore.ErrorLevel:
		Logger.Error(clb.message, clb.fields...)
	}
}
