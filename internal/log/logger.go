package log

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

var global atomic.Pointer[zap.Logger]

// Init builds the process logger (JSON in production, console otherwise) and installs it as L().
func Init(production bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if production {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	global.Store(l)
	zap.ReplaceGlobals(l)
	return l, nil
}

// L returns the logger installed by Init, or a no-op logger.
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
