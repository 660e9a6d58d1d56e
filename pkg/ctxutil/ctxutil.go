// Package ctxutil carries request-scoped values through context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

// WithRunID stores a scan-run correlation id in the context. When id is
// empty a fresh one is generated.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRunID()
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run id from the context.
// Returns an empty string if absent.
func RunIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// NewRunID returns a short random id suitable for log correlation.
func NewRunID() string {
	return uuid.NewString()[:8]
}
