package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type envKey struct{}

// env keeps the state shared by all commands.
type env struct {
	Log   *zap.Logger
	start time.Time
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	panic("env not found in context")
}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &env{start: time.Now()})
}

func (e *env) uptime() time.Duration {
	return time.Since(e.start)
}
