package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sseServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("missing Accept header")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, f := range frames {
			fmt.Fprint(w, f)
			flusher.Flush()
		}
	}))
}

func deltaFrame(content string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", content)
}

func TestGenerateStreamsDeltas(t *testing.T) {
	srv := sseServer(t, deltaFrame("hel"), deltaFrame("lo"), "data: [DONE]\n\n")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	stream, err := c.Generate(context.Background(), "u1/tool", Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var got strings.Builder
	for stream.Next() {
		got.WriteString(stream.Current())
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if got.String() != "hello" {
		t.Fatalf("got %q, want %q", got.String(), "hello")
	}
}

func TestCompleteReturnsFullText(t *testing.T) {
	srv := sseServer(t, deltaFrame("a"), deltaFrame("b"), "data: [DONE]\n\n")
	defer srv.Close()

	c := NewClient(srv.URL, "")
	text, err := c.Complete(context.Background(), "u1/tool", Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "ab" {
		t.Fatalf("got %q", text)
	}
}

func TestRateLimitClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Generate(context.Background(), "u1/tool", Request{Prompt: "hi"})
	if ErrorKind(err) != KindRateLimited {
		t.Fatalf("kind = %q, err = %v", ErrorKind(err), err)
	}
}

func TestQuotaClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Generate(context.Background(), "u1/tool", Request{Prompt: "hi"})
	if ErrorKind(err) != KindQuota {
		t.Fatalf("kind = %q, err = %v", ErrorKind(err), err)
	}
}

func TestTransportErrorClassified(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	_, err := c.Generate(context.Background(), "u1/tool", Request{Prompt: "hi"})
	if ErrorKind(err) != KindTransport {
		t.Fatalf("kind = %q, err = %v", ErrorKind(err), err)
	}
}

// A second call under the same key must be rejected while the first is
// still streaming, and admitted again once the first drains.
func TestInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, deltaFrame("x"))
		w.(http.Flusher).Flush()
		<-release
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	stream, err := c.Generate(context.Background(), "u1/tool", Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if !stream.Next() {
		t.Fatal("expected a delta before testing the guard")
	}

	if _, err := c.Generate(context.Background(), "u1/tool", Request{Prompt: "hi"}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	for stream.Next() {
	}

	deadline := time.After(2 * time.Second)
	for {
		_, err := c.Generate(context.Background(), "u1/tool", Request{Prompt: "hi"})
		if err == nil || !errors.Is(err, ErrInFlight) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("key never released after stream drained")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	c := NewClient("http://example.invalid", "")
	if _, err := c.Generate(context.Background(), "", Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}
