package auth

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/mailsender/pkg/logger"
)

type senderKey struct{}

// WithSender stores the authenticated sender address in ctx.
func WithSender(ctx context.Context, sender string) context.Context {
	return context.WithValue(ctx, senderKey{}, sender)
}

// SenderFromContext returns the address stored by RequireSender.
func SenderFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(senderKey{}).(string)
	return s, ok && s != ""
}

// SenderExtractor adds the sender to log records written with the request context.
func SenderExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if s, ok := SenderFromContext(ctx); ok {
			return slog.String("sender", s), true
		}
		return slog.Attr{}, false
	}
}
