// Package contextutil carries request scoped values (request id, caller,
// logger) through context.Context.
package contextutil

import (
	"context"

	"platoon-pulse/internal/shared/identity"

	"go.uber.org/zap"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	actorKey
	loggerKey
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}

func WithActor(ctx context.Context, a identity.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// GetActor reports the caller stored by the auth middleware, if any.
func GetActor(ctx context.Context) (identity.Actor, bool) {
	if ctx == nil {
		return identity.Actor{}, false
	}
	a, ok := ctx.Value(actorKey).(identity.Actor)
	return a, ok
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request logger, then defaultLogger, then a no-op
// logger. It never returns nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if defaultLogger != nil {
		return defaultLogger
	}
	return zap.NewNop()
}

// Fields identifies the request and its caller for structured logs. Empty
// values are left out.
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if rid := GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	if a, ok := GetActor(ctx); ok {
		fields = append(fields, zap.String("user_id", a.UserID), zap.String("role", a.Role))
		if a.IsLinked() {
			fields = append(fields, zap.String("cadet_id", a.CadetID))
		}
	}
	return fields
}
