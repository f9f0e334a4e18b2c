package audit

import (
	"context"
	"testing"

	"creatorlabs.app/internal/access"
	"creatorlabs.app/internal/auth"
)

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}

func TestLogEventWithContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = auth.ContextWithIdentity(ctx, access.Identity{UserID: "user-1", Admin: true})
	if err := LogEvent(ctx, "access.grant", map[string]any{"tool_id": access.ToolTagGenerator}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
}

func TestWithRequestIDIgnoresEmpty(t *testing.T) {
	ctx := context.Background()
	if got := WithRequestID(ctx, "   "); got != ctx {
		t.Fatal("empty request id must not allocate a new context")
	}
}
