package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger = zap.NewNop()

	// wrapped backs the package-level helpers and skips their frame when reporting the caller.
	wrapped = Logger.WithOptions(zap.AddCallerSkip(1))
)

func Init(environment string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"

	l, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return err
	}

	Set(l)
	return nil
}

// Set replaces the package logger. Tests use it with zaptest/observer cores.
func Set(l *zap.Logger) {
	Logger = l
	wrapped = l.WithOptions(zap.AddCallerSkip(1))
	zap.ReplaceGlobals(l)
}

func Sync() {
	_ = Logger.Sync()
}

func WithRequestID(requestID string) *zap.Logger {
	return Logger.With(zap.String("request_id", requestID))
}

type requestIDKey struct{}

// ContextWithRequestID stores the request id so code below the HTTP layer can log it.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns the package logger tagged with the request id carried by ctx, if any.
func FromContext(ctx context.Context) *zap.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return WithRequestID(id)
	}
	return Logger
}

func Debug(msg string, fields ...zap.Field) {
	wrapped.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	wrapped.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	wrapped.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	wrapped.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	wrapped.Fatal(msg, fields...)
}
