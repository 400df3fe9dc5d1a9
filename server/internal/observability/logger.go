package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Structured log field names shared by middleware and handlers.
const (
	LogFieldRequestID  = "request_id"
	LogFieldRoute      = "route"
	LogFieldLang       = "lang"
	LogFieldDuration   = "duration_ms"
	LogFieldTextLen    = "text_length"
	LogFieldCandidates = "candidates"
)

// RequestContext carries the identity and start time of one HTTP request.
// Its logger is bound to the request ID and route.
type RequestContext struct {
	RequestID string
	Route     string
	start     time.Time
	log       *slog.Logger
}

// NewRequestContext creates a request context with a fresh UUID.
func NewRequestContext(logger *slog.Logger, route string) *RequestContext {
	return NewRequestContextWithID(logger, uuid.NewString(), route)
}

// NewRequestContextWithID creates a request context for a client-supplied ID.
// A nil logger falls back to slog.Default.
func NewRequestContextWithID(logger *slog.Logger, requestID, route string) *RequestContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestContext{
		RequestID: requestID,
		Route:     route,
		start:     time.Now(),
		log:       logger.With(slog.String(LogFieldRequestID, requestID), slog.String(LogFieldRoute, route)),
	}
}

func (r *RequestContext) Info(msg string, attrs ...slog.Attr) {
	r.log.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

func (r *RequestContext) Debug(msg string, attrs ...slog.Attr) {
	r.log.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

func (r *RequestContext) Error(msg string, err error, attrs ...slog.Attr) {
	r.log.LogAttrs(context.Background(), slog.LevelError, msg, append(attrs, slog.Any("error", err))...)
}

// Duration returns the time since the request started.
func (r *RequestContext) Duration() time.Duration {
	return time.Since(r.start)
}

func (r *RequestContext) DurationMs() int64 {
	return r.Duration().Milliseconds()
}

type ctxKey struct{}

func WithRequestContext(ctx context.Context, reqCtx *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, reqCtx)
}

func FromContext(ctx context.Context) (*RequestContext, bool) {
	reqCtx, ok := ctx.Value(ctxKey{}).(*RequestContext)
	return reqCtx, ok
}

// FromContextOrNew returns the request context stored in ctx, or a fresh one
// on the default logger.
func FromContextOrNew(ctx context.Context, route string) *RequestContext {
	if reqCtx, ok := FromContext(ctx); ok {
		return reqCtx
	}
	return NewRequestContext(slog.Default(), route)
}
