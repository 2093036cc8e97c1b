// Package ctxutil carries request-scoped values through context.Context.
package ctxutil

import (
	"context"
	"log/slog"
)

type (
	subjectKey   struct{}
	requestIDKey struct{}
)

// WithSubject stores the authenticated subject in the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromCtx returns the authenticated subject, or "" and false.
func SubjectFromCtx(ctx context.Context) (string, bool) {
	sub, _ := ctx.Value(subjectKey{}).(string)
	return sub, sub != ""
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromCtx returns the request ID, or "" if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LogAttrs returns the request ID and subject present in ctx as slog
// attributes, ready to pass to a logging call.
func LogAttrs(ctx context.Context) []any {
	var attrs []any
	if id := RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if sub, ok := SubjectFromCtx(ctx); ok {
		attrs = append(attrs, slog.String("subject", sub))
	}
	return attrs
}
