package reqctx

import (
	"context"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc123")
	if got := RequestID(ctx); got != "abc123" {
		t.Errorf("expected abc123, got %s", got)
	}

	generated := RequestID(WithRequestContext(context.Background()))
	if len(generated) != 16 {
		t.Errorf("expected 16 hex chars, got %q", generated)
	}
	if generated == RequestID(WithRequestContext(context.Background())) {
		t.Error("expected distinct generated IDs")
	}
}

func TestGetRequestContext_Missing(t *testing.T) {
	rc := GetRequestContext(context.Background())
	if rc.RequestID != "unknown" {
		t.Errorf("expected unknown, got %s", rc.RequestID)
	}
}
