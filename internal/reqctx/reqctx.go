package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

type key int

const requestKey key = 0

// HeaderName carries request IDs in and out of the API.
const HeaderName = "X-Request-ID"

type RequestContext struct {
	RequestID string
	StartTime time.Time
}

// WithRequestContext attaches a fresh request ID.
func WithRequestContext(ctx context.Context) context.Context {
	return WithRequestID(ctx, "")
}

// WithRequestID attaches id, or a generated one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewID()
	}
	return context.WithValue(ctx, requestKey, &RequestContext{
		RequestID: id,
		StartTime: time.Now(),
	})
}

func GetRequestContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{
		RequestID: "unknown",
		StartTime: time.Now(),
	}
}

// RequestID is shorthand for GetRequestContext(ctx).RequestID.
func RequestID(ctx context.Context) string {
	return GetRequestContext(ctx).RequestID
}

func NewID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
