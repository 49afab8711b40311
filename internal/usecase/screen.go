package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"qiitawatch/internal/domain/ports"
)

// Option configures a screen state machine.
type Option func(*screenOptions)

type screenOptions struct {
	strict bool
}

// WithStrictInvariants makes a machine panic when a tapped id is missing from its
// working collection. Otherwise the violation is logged and ignored.
func WithStrictInvariants(strict bool) Option {
	return func(o *screenOptions) {
		o.strict = strict
	}
}

// screen carries what every state machine shares: its id, logger and invariant policy.
type screen struct {
	id     string
	name   string
	logger ports.Logger
	strict bool
}

func newScreen(name string, logger ports.Logger, opts []Option) screen {
	var o screenOptions
	for _, opt := range opts {
		opt(&o)
	}
	return screen{
		id:     uuid.NewString(),
		name:   name,
		logger: logger,
		strict: o.strict,
	}
}

func (s screen) args(args []any) []any {
	return append([]any{"screen", s.name, "screen_id", s.id}, args...)
}

func (s screen) debug(ctx context.Context, msg string, args ...any) {
	s.logger.Debug(ctx, msg, s.args(args)...)
}

func (s screen) info(ctx context.Context, msg string, args ...any) {
	s.logger.Info(ctx, msg, s.args(args)...)
}

func (s screen) warn(ctx context.Context, msg string, args ...any) {
	s.logger.Warn(ctx, msg, s.args(args)...)
}

func (s screen) error(ctx context.Context, msg string, args ...any) {
	s.logger.Error(ctx, msg, s.args(args)...)
}

// invariant reports a programming error.
func (s screen) invariant(ctx context.Context, msg string, args ...any) {
	if s.strict {
		panic(fmt.Sprintf("%s: %s %v", s.name, msg, args))
	}
	s.error(ctx, msg, args...)
}
